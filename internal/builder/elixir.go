package builder

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// elixirCallKind classifies a `call` node's own text: def/defp bodies are
// methods (or top-level functions when no enclosing defmodule exists),
// defmodule bodies are module containers. Anything else is neither.
func elixirCallKind(n *sitter.Node, source []byte) string {
	t := trimmed(n, source)
	switch {
	case strings.HasPrefix(t, "defmodule "):
		return "defmodule"
	case strings.HasPrefix(t, "def "):
		return "def"
	case strings.HasPrefix(t, "defp "):
		return "def"
	}
	return ""
}

// elixirNameAndParams derives a def/defp call's function name and verbatim
// parameter text. When the def has arguments, the target-identifier call
// is itself nested one level inside the def call's own arguments node
// (def foo(a, b) parses as call(target=def, arguments(call(target=foo,
// arguments(a, b))))); a zero-arity def's arguments node holds the bare
// identifier instead. arguments is a child node type in this grammar, not
// a field, so it is looked up by type.
func elixirNameAndParams(n *sitter.Node, source []byte) (name, params string) {
	args := findChildByType(n, "arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return "", ""
	}
	first := args.NamedChild(0)
	if first == nil {
		return "", ""
	}
	if first.Type() == "call" {
		name = childText(first, "target", source)
		if inner := findChildByType(first, "arguments"); inner != nil {
			params = text(inner, source)
		}
		return name, params
	}
	return text(first, source), ""
}

// elixirModuleName derives a defmodule call's own module name (its first
// argument, an alias like MyApp.Foo).
func elixirModuleName(n *sitter.Node, source []byte) string {
	args := findChildByType(n, "arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return ""
	}
	return trimmed(args.NamedChild(0), source)
}

// elixirEnclosingModule walks ancestors for the nearest defmodule call and
// returns its module name.
func elixirEnclosingModule(n *sitter.Node, source []byte) string {
	p := n.Parent()
	for p != nil {
		if p.Type() == "call" && elixirCallKind(p, source) == "defmodule" {
			return elixirModuleName(p, source)
		}
		p = p.Parent()
	}
	return ""
}
