package load

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// Config holds the configuration for loading the user packages.
type Config struct {
	// Dir is the directory packages are loaded from, usually the module root.
	Dir string
	// Patterns are the package patterns to load. Defaults to "./...".
	Patterns []string
	// BuildFlags are passed to the underlying build system (e.g. "-tags=dev").
	BuildFlags []string
	// Env overrides the environment of the build system. Nil means os.Environ.
	Env []string
	// ContractPkg overrides the import path of the contract package.
	ContractPkg string
}

// mode is the minimal load mode for resolving types across the import graph.
const mode = packages.NeedName | packages.NeedTypes | packages.NeedImports | packages.NeedDeps

// Load loads the packages matched by the config, together with everything
// they import, and scans them for processors.
func Load(ctx context.Context, cfg *Config) (*Result, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	fset := token.NewFileSet()
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        cfg.Dir,
		Env:        cfg.Env,
		BuildFlags: cfg.BuildFlags,
		Fset:       fset,
		Mode:       mode,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("assetgen/load: loading packages: %w", err)
	}
	var (
		errs []error
		all  []*types.Package
	)
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
		if pkg.Types != nil {
			all = append(all, pkg.Types)
		}
	})
	if len(errs) > 0 {
		return nil, &LoadError{Patterns: patterns, Errs: errs}
	}
	return Scan(all, fset, ScanOptions{ContractPkg: cfg.ContractPkg}), nil
}

// LoadError is returned when the user packages contain errors.
type LoadError struct {
	Patterns []string
	Errs     []error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("assetgen/load: %d error(s) loading %q: %v", len(e.Errs), e.Patterns, errors.Join(e.Errs...))
}

// Unwrap returns the package errors.
func (e *LoadError) Unwrap() []error {
	return e.Errs
}

// IsLoadError reports whether the error is a LoadError.
func IsLoadError(err error) bool {
	var e *LoadError
	return errors.As(err, &e)
}
