package load

import (
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"github.com/syssam/assetgen"
)

// Names looked up in the contract package.
const (
	processorName = "Processor"
	targetName    = "Target"
)

// Processor describes a processor type found in the compiled user packages.
type Processor struct {
	Name      string `msgpack:"name"`
	PkgPath   string `msgpack:"pkg_path"`
	PkgName   string `msgpack:"pkg_name"`
	Pos       string `msgpack:"pos,omitempty"`
	Extension string `msgpack:"extension"`
	// Pointer is set when only *T implements the contract.
	Pointer bool `msgpack:"pointer,omitempty"`
}

// FullName returns the fully qualified type name.
func (p *Processor) FullName() string {
	return p.PkgPath + "." + p.Name
}

// Result holds the outcome of a scan.
type Result struct {
	// Inert is set when the contract package is not part of the compilation,
	// or cannot be resolved unambiguously. No processors are reported then.
	Inert       bool
	Processors  []*Processor
	Diagnostics Diagnostics
}

// ScanOptions configures Scan.
type ScanOptions struct {
	// ContractPkg is the import path of the package declaring Processor and
	// Target. Defaults to assetgen.PkgPath.
	ContractPkg string
}

// Scan classifies every named type declared in pkgs, or in any package they
// import, as a processor or not. A type is a processor when it is concrete,
// when T or *T implements the contract Processor interface, and when it has
// exactly one direct field of type Target.
func Scan(pkgs []*types.Package, fset *token.FileSet, opts ScanOptions) *Result {
	contractPath := opts.ContractPkg
	if contractPath == "" {
		contractPath = assetgen.PkgPath
	}
	s := &scanner{fset: fset, res: &Result{}}
	all := collect(pkgs)

	var contracts []*types.Package
	for _, pkg := range all {
		if pkg.Path() == contractPath {
			contracts = append(contracts, pkg)
		}
	}
	switch len(contracts) {
	case 0:
		s.res.Inert = true
		return s.res
	case 1:
	default:
		s.res.Inert = true
		s.res.Diagnostics = append(s.res.Diagnostics,
			Errorf("", "package %q resolved to %d distinct packages", contractPath, len(contracts)))
		return s.res
	}
	contract := contracts[0]
	iface, target, ok := s.lookupContract(contract)
	if !ok {
		s.res.Inert = true
		return s.res
	}
	s.iface, s.target = iface, target

	seen := make(map[string]bool)
	for _, pkg := range all {
		if pkg == contract || pkg.Path() == contractPath {
			continue
		}
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok {
				continue
			}
			p := s.classify(pkg, tn, named)
			if p == nil || seen[p.FullName()] {
				continue
			}
			seen[p.FullName()] = true
			s.res.Processors = append(s.res.Processors, p)
		}
	}
	slices.SortFunc(s.res.Processors, func(a, b *Processor) int {
		return strings.Compare(a.FullName(), b.FullName())
	})
	return s.res
}

type scanner struct {
	fset   *token.FileSet
	res    *Result
	iface  *types.Interface
	target types.Type
}

func (s *scanner) lookupContract(pkg *types.Package) (*types.Interface, types.Type, bool) {
	var (
		iface  *types.Interface
		target types.Type
	)
	if tn, ok := pkg.Scope().Lookup(processorName).(*types.TypeName); ok {
		iface, _ = tn.Type().Underlying().(*types.Interface)
	}
	if tn, ok := pkg.Scope().Lookup(targetName).(*types.TypeName); ok {
		target = tn.Type()
	}
	if iface == nil || target == nil {
		s.res.Diagnostics = append(s.res.Diagnostics,
			Errorf("", "package %q does not declare %s and %s", pkg.Path(), processorName, targetName))
		return nil, nil, false
	}
	return iface, target, true
}

// classify returns the processor descriptor of named, or nil if it is not a
// processor. Invalid declarations are reported as diagnostics.
func (s *scanner) classify(pkg *types.Package, tn *types.TypeName, named *types.Named) *Processor {
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	var (
		exts []string
		pos  = s.pos(tn.Pos())
		full = pkg.Path() + "." + tn.Name()
	)
	for i := 0; i < st.NumFields(); i++ {
		if types.Identical(st.Field(i).Type(), s.target) {
			exts = append(exts, reflect.StructTag(st.Tag(i)).Get(assetgen.TagKey))
		}
	}
	switch {
	case len(exts) == 0:
		return nil
	case len(exts) > 1:
		s.res.Diagnostics = append(s.res.Diagnostics,
			Errorf(pos, "%s declares %d targets %q, expected exactly one", full, len(exts), exts))
		return nil
	case named.TypeParams().Len() > 0:
		s.res.Diagnostics = append(s.res.Diagnostics,
			Warnf(pos, "%s is generic and cannot be registered as a processor", full))
		return nil
	}
	p := &Processor{
		Name:      tn.Name(),
		PkgPath:   pkg.Path(),
		PkgName:   pkg.Name(),
		Pos:       pos,
		Extension: assetgen.NormalizeExt(exts[0]),
	}
	switch {
	case types.Implements(named, s.iface):
	case types.Implements(types.NewPointer(named), s.iface):
		p.Pointer = true
	default:
		s.res.Diagnostics = append(s.res.Diagnostics,
			Warnf(pos, "%s declares target %q but does not implement %s", full, exts[0], processorName))
		return nil
	}
	if !tn.Exported() || pkg.Name() == "main" {
		s.res.Diagnostics = append(s.res.Diagnostics,
			Warnf(pos, "processor %s is not importable and is ignored", full))
		return nil
	}
	return p
}

func (s *scanner) pos(p token.Pos) string {
	if s.fset == nil || !p.IsValid() {
		return ""
	}
	return s.fset.Position(p).String()
}

// collect returns pkgs and every package they import, transitively, sorted
// by import path.
func collect(pkgs []*types.Package) []*types.Package {
	var (
		all  []*types.Package
		seen = make(map[*types.Package]bool)
		walk func(*types.Package)
	)
	walk = func(pkg *types.Package) {
		if pkg == nil || seen[pkg] {
			return
		}
		seen[pkg] = true
		all = append(all, pkg)
		for _, imp := range pkg.Imports() {
			walk(imp)
		}
	}
	for _, pkg := range pkgs {
		walk(pkg)
	}
	slices.SortStableFunc(all, func(a, b *types.Package) int {
		return strings.Compare(a.Path(), b.Path())
	})
	return all
}
