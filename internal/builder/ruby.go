package builder

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// rubyAncestorPath computes the ::-joined module/class path formed by n's
// ancestors alone. It excludes n itself, which is what callers resolving a
// method's container want.
func rubyAncestorPath(n *sitter.Node, source []byte) string {
	var parts []string
	p := n.Parent()
	for p != nil {
		if p.Type() == "module" || p.Type() == "class" {
			if name := childText(p, "name", source); name != "" {
				parts = append(parts, name)
			}
		}
		p = p.Parent()
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

// rubyOwnFQN computes a class/module capture's own fully qualified name:
// the ancestor path plus its own name.
func rubyOwnFQN(n *sitter.Node, source []byte) string {
	path := rubyAncestorPath(n, source)
	own := childText(n, "name", source)
	switch {
	case own == "":
		return path
	case path == "":
		return own
	default:
		return path + "::" + own
	}
}

// rubyAccessibility scans n's previous siblings for the nearest bare
// public/protected/private identifier statement. Ruby's accessibility
// keywords flip an implicit mode for the sibling defs that follow them,
// so the nearest preceding marker is the method's effective mode - no
// state needs tracking across the whole capture stream.
func rubyAccessibility(n *sitter.Node, source []byte) string {
	parent := n.Parent()
	if parent == nil {
		return ""
	}
	cnt := int(parent.ChildCount())
	idx := -1
	for i := 0; i < cnt; i++ {
		c := parent.Child(i)
		if sameNode(c, n) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ""
	}
	for i := idx - 1; i >= 0; i-- {
		c := parent.Child(i)
		if c == nil || c.Type() != "identifier" {
			continue
		}
		switch trimmed(c, source) {
		case "private":
			return "private"
		case "protected":
			return "protected"
		case "public":
			return "public"
		}
	}
	return ""
}
