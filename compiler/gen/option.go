package gen

import (
	"errors"
	"go/token"
	"log/slog"
	"path/filepath"
	"time"
)

// Option configures asset generation.
type Option func(*Config) error

// WithProjectDir sets the project root. Relative directories are resolved
// against the working directory.
func WithProjectDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("ProjectDir", nil, "project directory cannot be empty")
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return NewConfigError("ProjectDir", dir, err.Error())
		}
		c.ProjectDir = abs
		return nil
	}
}

// WithResources sets the resource root, relative to the project root.
func WithResources(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Resources", nil, "resource directory cannot be empty")
		}
		c.Resources = dir
		return nil
	}
}

// WithTarget sets the output directory, relative to the project root.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the name of the generated package.
func WithPackage(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) {
			return NewConfigError("Package", name, "package name must be a valid identifier")
		}
		c.Package = name
		return nil
	}
}

// WithPatterns sets the package patterns scanned for processors.
func WithPatterns(patterns ...string) Option {
	return func(c *Config) error {
		c.Patterns = append(c.Patterns, patterns...)
		return nil
	}
}

// WithBuildFlags sets custom build flags for loading packages.
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithDebounce sets the quiet period of Watch.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) error {
		c.Debounce = d
		return nil
	}
}

// WithOnly restricts generation to the given resource files.
func WithOnly(paths ...string) Option {
	return func(c *Config) error {
		for _, p := range paths {
			abs, err := filepath.Abs(p)
			if err != nil {
				return NewConfigError("Only", p, err.Error())
			}
			c.Only = append(c.Only, abs)
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
