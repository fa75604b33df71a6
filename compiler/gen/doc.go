// Package gen generates the asset package of a project from its resource
// tree.
//
// # Pipeline
//
//	Project packages (./...)
//	        ↓
//	   load.Load + load.Scan (processor types, statically)
//	        ↓
//	   load.Registry → driver program (links the processors)
//	        ↓
//	   Registry (extension → Processor value, builtins layered below)
//	        ↓
//	   Router (resource file → Unit)
//	        ↓
//	   Sink (Unit → Go source) → Writer (Res_*_res.g.go)
//
// Run executes the routing and emission steps with a registry that holds
// processor values. Generate executes the whole pipeline: without user
// processors it calls Run in-process with the builtin registry, otherwise it
// builds and runs a driver program (see DriverSource) with the go command.
//
// # Units
//
// Every file under the resource root with an extension becomes one unit. The
// unit key is derived from the path relative to the root:
//
//	res/images/cat.png → Res_images_cat_res.g.go
//
// A unit whose extension has no processor still produces a file holding only
// the package clause. Units of different files binding the same identifier are
// reported as errors and not written.
//
// # Incremental runs
//
// The Writer leaves files with unchanged content untouched and deletes
// generated files of resources that no longer exist. With Config.Only a run
// only touches the listed resources; Watch uses this for resource changes.
package gen
