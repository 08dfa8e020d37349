// Package zig adapts the upstream tree-sitter-zig grammar (which ships its
// own Go binding built against github.com/tree-sitter/go-tree-sitter) to the
// *sitter.Language handle smacker/go-tree-sitter's parser expects.
//
// smacker/go-tree-sitter has no zig subpackage of its own; every other
// language in internal/grammar comes from one. Both wrapper libraries are
// thin cgo shims over the same C ABI (a bare *TSLanguage pointer), so
// rewrapping the pointer with sitter.NewLanguage is the same trick each of
// smacker's own per-language binding.go files use internally.
package zig

import (
	"unsafe"

	sitter "github.com/smacker/go-tree-sitter"
	tszig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
)

// GetLanguage returns the Zig grammar handle, matching the
// func() *sitter.Language signature every other internal/grammar entry uses.
func GetLanguage() *sitter.Language {
	return sitter.NewLanguage(unsafe.Pointer(tszig.Language()))
}
