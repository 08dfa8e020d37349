package builder

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// zigIsPub reports whether a variable_declaration's own text starts with
// "pub"; every Zig visibility rule bottoms out in this check.
func zigIsPub(vd *sitter.Node, source []byte) bool {
	return strings.HasPrefix(trimmed(vd, source), "pub")
}

// zigContainerKind inspects a variable_declaration's initializer keyword
// to decide whether its container_field children belong to a struct
// (-> class), an enum, or a union.
func zigContainerKind(vd *sitter.Node, source []byte) string {
	t := trimmed(vd, source)
	if i := strings.Index(t, "="); i >= 0 {
		t = strings.TrimSpace(t[i+1:])
	}
	t = strings.TrimPrefix(t, "extern ")
	t = strings.TrimPrefix(t, "packed ")
	switch {
	case strings.HasPrefix(t, "union"):
		return "union"
	case strings.HasPrefix(t, "enum"):
		return "enum"
	default:
		return "struct"
	}
}

// zigContainerName returns the identifier a `const Foo = struct {...}`
// (or enum/union) declares.
func zigContainerName(vd *sitter.Node, source []byte) string {
	if id := findDescendantByType(vd, "identifier"); id != nil {
		return text(id, source)
	}
	return ""
}
