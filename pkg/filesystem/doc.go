// Package filesystem provides the filesystem capability used by the
// settings, tree and scaffold packages.
//
// This package contains the FS interface, the OS implementation used in
// production, and an afero-backed implementation used for in-memory tests.
package filesystem
