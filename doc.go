// Package declcli provides a declarative layer for building command-line
// applications: methods on a receiver whose names share a configurable prefix
// become subcommands, optionally nested into groups derived from their names.
//
// A [Commander] describes the application (name, version, hierarchy depth) and
// owns a [Registry] of commands, populated either explicitly with
// [Commander.Register] or by scanning a receiver's methods with
// [Commander.ScanMethods]. Each invocation of [Commander.Run] builds a fresh
// command tree, parses the arguments against it, and dispatches to the
// selected handler.
//
// The underlying engine is an ordinary [Command] tree over the standard
// library's flag package, so the declarative layer can be skipped entirely and
// trees assembled by hand where that is clearer.
package declcli
