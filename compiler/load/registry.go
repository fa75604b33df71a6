package load

import (
	"maps"
	"slices"
	"strings"
)

// Registry maps normalized extensions to the processor types handling them.
// It is derived from a scan and is read-only once built.
type Registry struct {
	byExt map[string]*Processor
}

// NewRegistry builds a registry from the given processors. Processors are
// inserted in fully qualified name order; when two processors declare the same
// extension the later one wins and a warning is reported. Processors with an
// empty extension are skipped.
func NewRegistry(procs []*Processor) (*Registry, Diagnostics) {
	var diags Diagnostics
	sorted := slices.Clone(procs)
	slices.SortStableFunc(sorted, func(a, b *Processor) int {
		return strings.Compare(a.FullName(), b.FullName())
	})
	r := &Registry{byExt: make(map[string]*Processor, len(sorted))}
	for _, p := range sorted {
		if p.Extension == "" {
			continue
		}
		if prev, ok := r.byExt[p.Extension]; ok {
			diags = append(diags, Warnf(p.Pos, "extension %q is declared by %s and %s; using %s",
				p.Extension, prev.FullName(), p.FullName(), p.FullName()))
		}
		r.byExt[p.Extension] = p
	}
	return r, diags
}

// Lookup returns the processor registered for the normalized extension.
func (r *Registry) Lookup(ext string) (*Processor, bool) {
	p, ok := r.byExt[ext]
	return p, ok
}

// Len returns the number of registered extensions.
func (r *Registry) Len() int {
	return len(r.byExt)
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	return slices.Sorted(maps.Keys(r.byExt))
}

// Processors returns the processor of each registered extension, ordered by
// extension.
func (r *Registry) Processors() []*Processor {
	procs := make([]*Processor, 0, len(r.byExt))
	for _, ext := range r.Extensions() {
		procs = append(procs, r.byExt[ext])
	}
	return procs
}
