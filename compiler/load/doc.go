// Package load finds asset processors in compiled Go packages.
//
// Load type-checks the user packages with golang.org/x/tools/go/packages and
// hands every package of the import graph to Scan, which classifies each named
// type against the assetgen contract:
//
//	concrete struct  +  T or *T implements assetgen.Processor
//	                 +  exactly one direct assetgen.Target field
//
// The contract package is resolved by import path. When the user program does
// not import it, the scan is inert: no processors and no diagnostics.
//
// NewRegistry turns the scan result into an extension -> processor mapping.
// The registry is pure derived data; it is rebuilt on every run.
package load
