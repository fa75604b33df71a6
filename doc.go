// Package assetgen binds resource files to typed Go symbols at build time.
//
// A program declares processors, types that know how to turn a resource file
// into Go declarations, and tags each one with the file extension it handles:
//
//	type SampleProcessor struct {
//	    assetgen.Target `ext:".sample"`
//	}
//
//	func (SampleProcessor) Declare(path string) []jen.Code {
//	    return []jen.Code{
//	        jen.Var().Id(assetgen.Ident(path)).Op("=").Lit(path),
//	    }
//	}
//
// The assetgen command (see cmd/assetgen) loads the program's packages, finds
// every processor in the import graph, walks the resource directory (res/ by
// default) and writes one generated file per resource into the assets package:
//
//	//go:generate go run github.com/syssam/assetgen/cmd/assetgen generate
//
// Images (.png, .jpg, .jpeg) are handled out of the box by [TextureProcessor],
// which binds each file to a [TextureAsset]:
//
//	var Cat = assetgen.NewTextureAsset("/home/me/game/res/images/cat.png")
//
// User processors override the builtin ones for the same extension. Files with
// extensions nobody handles still get an empty generated file so that output
// names stay stable between runs.
//
// # Extensions
//
// Extensions are compared in canonical form: a leading dot followed by the
// lower-cased suffix. Both ".PNG" and "png" normalize to ".png". See
// [NormalizeExt].
package assetgen
