package gen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/tools/imports"

	"github.com/syssam/assetgen/compiler/load"
)

const genPkg = "github.com/syssam/assetgen/compiler/gen"

// DriverSource returns the main package of the driver program. The driver
// links the user processors found by the scan, registers one value of each
// on top of the builtin registry and calls DriverMain.
func DriverSource(cfg *Config, reg *load.Registry) *jen.File {
	f := jen.NewFile("main")
	f.HeaderComment(cfg.header())
	for _, p := range reg.Processors() {
		f.ImportName(p.PkgPath, p.PkgName)
	}
	var body []jen.Code
	body = append(body, jen.Id("reg").Op(":=").Qual(genPkg, "NewRegistry").Call())
	for _, p := range reg.Processors() {
		value := jen.Qual(p.PkgPath, p.Name).Values()
		if p.Pointer {
			value = jen.Op("&").Qual(p.PkgPath, p.Name).Values()
		}
		body = append(body, jen.Id("reg").Dot("Register").Call(
			jen.Lit(p.Extension),
			jen.Lit(p.FullName()),
			value,
		))
	}
	body = append(body, jen.Qual(genPkg, "DriverMain").Call(
		append([]jen.Code{jen.Id("reg")}, driverOptions(cfg)...)...,
	))
	f.Func().Id("main").Params().Block(body...)
	return f
}

// driverOptions passes the configuration to the driver as option calls.
func driverOptions(cfg *Config) []jen.Code {
	opt := func(name string, args ...jen.Code) jen.Code {
		return jen.Line().Qual(genPkg, name).Call(args...)
	}
	lits := func(ss []string) []jen.Code {
		out := make([]jen.Code, len(ss))
		for i, s := range ss {
			out[i] = jen.Lit(s)
		}
		return out
	}
	opts := []jen.Code{
		opt("WithProjectDir", jen.Lit(cfg.ProjectDir)),
		opt("WithResources", jen.Lit(cfg.ResourceDir())),
		opt("WithTarget", jen.Lit(cfg.TargetDir())),
		opt("WithPackage", jen.Lit(cfg.PackageName())),
		opt("WithHeader", jen.Lit(cfg.header())),
	}
	if cfg.Workers > 0 {
		opts = append(opts, opt("WithWorkers", jen.Lit(cfg.Workers)))
	}
	if len(cfg.Only) > 0 {
		opts = append(opts, opt("WithOnly", lits(cfg.Only)...))
	}
	return append(opts, jen.Line())
}

// Environment of the driver program.
const (
	envDriverLevel = "ASSETGEN_DRIVER_LOG_LEVEL"
)

// DriverMain is the entry point of the driver program. It runs the
// generation with reg and writes the msgpack encoded report to stdout.
// Records are logged as text to stderr.
func DriverMain(reg *Registry, opts ...Option) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv(envDriverLevel))); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	cfg, err := NewConfig(append(opts, WithLogger(log))...)
	if err != nil {
		log.Error("invalid driver configuration", "error", err)
		os.Exit(1)
	}
	report, err := Run(context.Background(), cfg, reg)
	if err != nil {
		log.Error("asset generation failed", "error", err)
		os.Exit(1)
	}
	buf, err := msgpack.Marshal(report)
	if err != nil {
		log.Error("encode report", "error", err)
		os.Exit(1)
	}
	if _, err := os.Stdout.Write(buf); err != nil {
		os.Exit(1)
	}
}

// RunDriver generates, builds and runs the driver program for reg in a
// temporary directory of the project, and returns the report it produced.
func RunDriver(ctx context.Context, cfg *Config, reg *load.Registry) (*Report, error) {
	log := cfg.logger()
	dir, err := os.MkdirTemp(cfg.ProjectDir, "_assetgen_driver_")
	if err != nil {
		return nil, NewGenerationError("driver", "", "create driver directory", err)
	}
	defer os.RemoveAll(dir)
	mainFile := filepath.Join(dir, "main.go")
	var buf bytes.Buffer
	if err := DriverSource(cfg, reg).Render(&buf); err != nil {
		return nil, NewGenerationError("driver", "main.go", "render driver", err)
	}
	src, err := imports.Process(mainFile, buf.Bytes(), nil)
	if err != nil {
		return nil, NewGenerationError("driver", "main.go", "format driver", err)
	}
	if err := os.WriteFile(mainFile, src, 0o644); err != nil {
		return nil, NewGenerationError("driver", "main.go", "write driver", err)
	}
	args := append([]string{"run"}, cfg.BuildFlags...)
	args = append(args, "./"+filepath.Base(dir))
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = cfg.ProjectDir
	cmd.Env = append(os.Environ(), envDriverLevel+"="+driverLevel(ctx, log))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	log.Debug("running driver", "dir", dir, "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "driver exited with " + strconv.Quote(err.Error())
		}
		return nil, NewGenerationError("driver", "", msg, err)
	}
	report := &Report{}
	if err := msgpack.Unmarshal(stdout.Bytes(), report); err != nil {
		return nil, NewGenerationError("driver", "", fmt.Sprintf("decode report (%d bytes)", stdout.Len()), err)
	}
	return report, nil
}

// driverLevel returns the lowest level enabled on log.
func driverLevel(ctx context.Context, log *slog.Logger) string {
	for _, l := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if log.Enabled(ctx, l) {
			return l.String()
		}
	}
	return slog.LevelError.String()
}
