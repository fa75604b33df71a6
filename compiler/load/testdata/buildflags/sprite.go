//go:build !nosprites

package buildflags

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/assetgen"
)

// Sprite handles Aseprite files.
type Sprite struct {
	assetgen.Target `ext:".aseprite"`
}

// Declare implements assetgen.Processor.
func (Sprite) Declare(path string) []jen.Code {
	return []jen.Code{jen.Var().Id(assetgen.Ident(path)).Op("=").Lit(path)}
}
