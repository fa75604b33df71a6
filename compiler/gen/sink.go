package gen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
)

// Sink renders units into Go source files of the generated package.
type Sink struct {
	pkg    string
	header string
}

// NewSink returns a sink for the named package.
func NewSink(pkg, header string) *Sink {
	if header == "" {
		header = DefaultHeader
	}
	return &Sink{pkg: pkg, header: header}
}

// Render returns the formatted source of u. A unit without a processor, or a
// processor returning no declarations, renders to a file holding only the
// package clause and the source comment.
func (s *Sink) Render(u *Unit) ([]byte, error) {
	f := jen.NewFile(s.pkg)
	f.HeaderComment(s.header)
	f.Comment("Source: " + u.Rel)
	if u.Processor != nil {
		decls, err := safeDeclare(u)
		if err != nil {
			return nil, NewGenerationError("render", u.File(), u.Type, err)
		}
		for _, d := range decls {
			f.Add(d)
			f.Line()
		}
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("render", u.File(), u.Type+" produced invalid code", err)
	}
	return buf.Bytes(), nil
}

// safeDeclare wraps the Processor.Declare method with recover to ensure a
// failing processor only affects its own unit.
func safeDeclare(u *Unit) (decls []jen.Code, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Declare panics: %v", u.Processor, v)
			decls = nil
		}
	}()
	return u.Processor.Declare(u.Path), nil
}
