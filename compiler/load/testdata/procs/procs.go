package procs

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/assetgen"
)

// Sample handles .sample files.
type Sample struct {
	assetgen.Target `ext:".sample"`
}

// Declare implements assetgen.Processor.
func (Sample) Declare(path string) []jen.Code {
	return []jen.Code{jen.Comment("This is a sample file")}
}

// Cue handles .cue files.
type Cue struct {
	assetgen.Target `ext:".cue"`
}

// Declare implements assetgen.Processor.
func (*Cue) Declare(path string) []jen.Code {
	return []jen.Code{jen.Var().Id(assetgen.Ident(path)).Op("=").Lit(path)}
}
