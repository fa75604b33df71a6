package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/assetgen/compiler/gen"
	"github.com/syssam/assetgen/compiler/load"
)

// EnvProjectDir is the environment variable holding the default project
// directory. It can be set in a .env file.
const EnvProjectDir = "ASSETGEN_PROJECT_DIR"

type rootFlags struct {
	dir        string
	resources  string
	target     string
	pkg        string
	buildFlags []string
	workers    int
	verbose    bool
	logFormat  string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "assetgen",
		Short:         "Generate typed Go bindings for the resource files of a project",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	pf := root.PersistentFlags()
	pf.StringVarP(&f.dir, "dir", "C", "", "project directory (default $"+EnvProjectDir+" or the working directory)")
	pf.StringVar(&f.resources, "res", "", "resource directory, relative to the project (default \""+gen.DefaultResources+"\")")
	pf.StringVar(&f.target, "target", "", "output directory, relative to the project (default \""+gen.DefaultTarget+"\")")
	pf.StringVar(&f.pkg, "package", "", "name of the generated package (default: base name of the target)")
	pf.StringSliceVar(&f.buildFlags, "build-flag", nil, "build flag passed to the go command, can be repeated")
	pf.IntVarP(&f.workers, "workers", "j", 0, "number of parallel workers (default GOMAXPROCS)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&f.logFormat, "log-format", "text", "log output format: text or json")

	root.AddCommand(
		newGenerateCmd(f),
		newWatchCmd(f),
		newListCmd(f),
	)
	return root
}

// config builds the generation config from the config file and the flags.
// Flags take precedence over the file.
func (f *rootFlags) config(cmd *cobra.Command) (*gen.Config, error) {
	log, err := f.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	dir := f.dir
	if dir == "" {
		dir = os.Getenv(EnvProjectDir)
	}
	if dir == "" {
		dir = "."
	}
	cfg := &gen.Config{}
	if err := cfg.Apply(gen.WithProjectDir(dir), gen.WithLogger(log)); err != nil {
		return nil, err
	}
	if err := cfg.LoadConfigFile(cfg.ProjectDir); err != nil {
		return nil, err
	}
	var opts []gen.Option
	flags := cmd.Flags()
	if flags.Changed("res") {
		opts = append(opts, gen.WithResources(f.resources))
	}
	if flags.Changed("target") {
		opts = append(opts, gen.WithTarget(f.target))
	}
	if flags.Changed("package") {
		opts = append(opts, gen.WithPackage(f.pkg))
	}
	if flags.Changed("build-flag") {
		cfg.BuildFlags = nil
		opts = append(opts, gen.WithBuildFlags(f.buildFlags...))
	}
	if flags.Changed("workers") {
		opts = append(opts, gen.WithWorkers(f.workers))
	}
	if err := cfg.ApplyAll(opts...); err != nil {
		return nil, &ExitError{Code: 2, Err: err}
	}
	return cfg, nil
}

func (f *rootFlags) logger(w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if f.verbose {
		opts.Level = slog.LevelDebug
	}
	switch strings.ToLower(f.logFormat) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, &ExitError{Code: 2, Err: fmt.Errorf("invalid log format %q, expected text or json", f.logFormat)}
	}
}

func newGenerateCmd(f *rootFlags) *cobra.Command {
	var only []string
	cmd := &cobra.Command{
		Use:   "generate [flags]",
		Short: "Generate the asset package once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Apply(gen.WithOnly(only...)); err != nil {
				return err
			}
			return generate(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringSliceVar(&only, "only", nil, "restrict the run to the given resource files")
	return cmd
}

// generate runs the pipeline and logs the report. Error diagnostics fail the
// command.
func generate(ctx context.Context, cfg *gen.Config) error {
	report, err := gen.Generate(ctx, cfg)
	if err != nil {
		return err
	}
	report.Log(cfg.Logger)
	if err := report.Err(); err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

func newWatchCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [flags]",
		Short: "Generate the asset package and regenerate it when resources or processors change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := generate(ctx, cfg); err != nil && !isDiagnostics(err) {
				return err
			}
			cfg.Logger.Info("watching for changes", "project", cfg.ProjectDir)
			return gen.Watch(ctx, cfg, func(ctx context.Context, c gen.Change) error {
				if c.Empty() {
					return nil
				}
				run := *cfg
				run.Only = nil
				if !c.Sources && !structural(c.Resources) {
					run.Only = c.Resources
				}
				if err := generate(ctx, &run); err != nil && !isDiagnostics(err) {
					// Keep watching; the next change may fix the project.
					cfg.Logger.Error("asset generation failed", "error", err)
				}
				return nil
			})
		},
	}
}

// structural reports whether a directory of the resource tree was created or
// removed. The affected files are not known then.
func structural(paths []string) bool {
	for _, p := range paths {
		info, err := os.Stat(p)
		switch {
		case err == nil && info.IsDir():
			return true
		case err != nil && filepath.Ext(p) == "":
			return true
		}
	}
	return false
}

// isDiagnostics reports whether err only carries error diagnostics of a
// completed run.
func isDiagnostics(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Code == 1
}

func newListCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [flags]",
		Short: "Print the extension registry of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			res, err := load.Load(cmd.Context(), &load.Config{
				Dir:        cfg.ProjectDir,
				Patterns:   cfg.Patterns,
				BuildFlags: cfg.BuildFlags,
			})
			if err != nil {
				return err
			}
			static, diags := load.NewRegistry(res.Processors)
			diags = append(res.Diagnostics, diags...)
			for _, d := range diags {
				cfg.Logger.Warn(d.Message, "pos", d.Pos, "severity", d.Severity.String())
			}
			printRegistry(cmd.OutOrStdout(), gen.NewRegistry(), static)
			return nil
		},
	}
}

// printRegistry writes one row per extension. User processors replace the
// builtin of the same extension.
func printRegistry(w io.Writer, builtins *gen.Registry, static *load.Registry) {
	type row struct{ ext, typ, origin string }
	rows := make(map[string]row)
	for _, ext := range builtins.Extensions() {
		e, _ := builtins.Lookup(ext)
		rows[ext] = row{ext, e.Type, "builtin"}
	}
	for _, p := range static.Processors() {
		typ := p.FullName()
		if p.Pointer {
			typ = "*" + typ
		}
		rows[p.Extension] = row{p.Extension, typ, p.Pos}
	}
	for _, ext := range gen.KnownExtensions {
		if _, ok := rows[ext]; !ok {
			rows[ext] = row{ext, "-", "no processor"}
		}
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXTENSION\tPROCESSOR\tORIGIN")
	for _, ext := range slices.Sorted(maps.Keys(rows)) {
		r := rows[ext]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ext, r.typ, r.origin)
	}
	tw.Flush()
}
