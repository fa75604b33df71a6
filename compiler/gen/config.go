package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the optional configuration file read from the project root.
const ConfigFile = "assetgen.yaml"

// Defaults for the Config fields.
const (
	DefaultResources = "res"
	DefaultTarget    = "assets"
	DefaultHeader    = "Code generated by assetgen. DO NOT EDIT."
	DefaultDebounce  = 200 * time.Millisecond
)

// Config holds the global configuration for asset generation.
type Config struct {
	// ProjectDir is the root of the user module. When empty, generation is
	// skipped entirely.
	ProjectDir string `yaml:"-"`

	// Resources is the resource root, relative to ProjectDir.
	Resources string `yaml:"resources,omitempty"`

	// Target is the output directory of the generated package, relative to
	// ProjectDir.
	Target string `yaml:"target,omitempty"`

	// Package is the name of the generated package. Defaults to the base name
	// of Target.
	Package string `yaml:"package,omitempty"`

	// Patterns are the package patterns scanned for processors.
	Patterns []string `yaml:"patterns,omitempty"`

	// BuildFlags are passed to the go command when loading packages and
	// running the driver.
	BuildFlags []string `yaml:"build_flags,omitempty"`

	// Workers bounds the number of units rendered concurrently.
	Workers int `yaml:"workers,omitempty"`

	// Header is the comment placed at the top of every generated file.
	Header string `yaml:"header,omitempty"`

	// Debounce is the quiet period Watch waits before regenerating.
	Debounce time.Duration `yaml:"debounce,omitempty"`

	// Only restricts a run to the given resource files (absolute paths).
	// Stale files are not pruned in this mode.
	Only []string `yaml:"-"`

	// Logger receives progress and diagnostic records.
	Logger *slog.Logger `yaml:"-"`
}

// ResourceDir returns the absolute resource root.
func (c *Config) ResourceDir() string {
	return c.abs(orDefault(c.Resources, DefaultResources))
}

// TargetDir returns the absolute output directory.
func (c *Config) TargetDir() string {
	return c.abs(orDefault(c.Target, DefaultTarget))
}

// PackageName returns the name of the generated package.
func (c *Config) PackageName() string {
	if c.Package != "" {
		return c.Package
	}
	return filepath.Base(c.TargetDir())
}

func (c *Config) header() string {
	return orDefault(c.Header, DefaultHeader)
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Config) debounce() time.Duration {
	if c.Debounce > 0 {
		return c.Debounce
	}
	return DefaultDebounce
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.ProjectDir, p)
}

// inert reports why generation should be skipped, or "" if it should run.
func (c *Config) inert() string {
	if c.ProjectDir == "" {
		return "project directory is not set"
	}
	info, err := os.Stat(c.ResourceDir())
	if err != nil || !info.IsDir() {
		return "resource directory " + c.ResourceDir() + " does not exist"
	}
	return ""
}

// LoadConfigFile reads ConfigFile from dir into c. A missing file is not an
// error. Fields set in the file override the current values.
func (c *Config) LoadConfigFile(dir string) error {
	buf, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(buf, c); err != nil {
		return NewConfigError("ConfigFile", filepath.Join(dir, ConfigFile), fmt.Sprintf("invalid yaml: %v", err))
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
