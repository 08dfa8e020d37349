package builder

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// text extracts a node's source slice, substituting "" for anything that
// isn't valid UTF-8 instead of letting one malformed token poison the
// whole outline.
func text(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	s := n.Content(source)
	if !utf8.ValidString(s) {
		return ""
	}
	return s
}

func childText(n *sitter.Node, field string, source []byte) string {
	if n == nil {
		return ""
	}
	return text(n.ChildByFieldName(field), source)
}

// findAncestorByType climbs from n (exclusive) looking for the nearest
// ancestor matching one of types.
func findAncestorByType(n *sitter.Node, types ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	p := n.Parent()
	for p != nil {
		t := p.Type()
		for _, want := range types {
			if t == want {
				return p
			}
		}
		p = p.Parent()
	}
	return nil
}

// findDescendantByType performs a pre-order walk from n (inclusive of n's
// children, exclusive of n itself) looking for the first node of childType.
func findDescendantByType(n *sitter.Node, childType string) *sitter.Node {
	if n == nil {
		return nil
	}
	cnt := int(n.ChildCount())
	for i := 0; i < cnt; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if c.Type() == childType {
			return c
		}
		if found := findDescendantByType(c, childType); found != nil {
			return found
		}
	}
	return nil
}

// findChildByType returns the first direct child of n with the given type.
func findChildByType(n *sitter.Node, childType string) *sitter.Node {
	if n == nil {
		return nil
	}
	cnt := int(n.ChildCount())
	for i := 0; i < cnt; i++ {
		c := n.Child(i)
		if c != nil && c.Type() == childType {
			return c
		}
	}
	return nil
}

// closestAncestorName walks ancestors until one exposes a "name" field -
// the default container-resolution rule for languages with no special
// container shape.
func closestAncestorName(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	p := n.Parent()
	for p != nil {
		if nameNode := p.ChildByFieldName("name"); nameNode != nil {
			return text(nameNode, source)
		}
		p = p.Parent()
	}
	return ""
}

func isUpperFirst(name string) bool {
	if name == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// sameNode compares by byte span rather than pointer identity: repeated
// Node/Child accessors on this binding can hand back distinct wrapper
// values for the same underlying tree position.
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func trimmed(n *sitter.Node, source []byte) string {
	return strings.TrimSpace(text(n, source))
}
