package builder

import sitter "github.com/smacker/go-tree-sitter"

// cppName derives a C++ capture's name: class captures use the name field;
// methods/variables look up field_identifier, else operator_name, else
// identifier, prefixed with a qualifying scope when a qualified_identifier
// declarator is present (Scope::ident).
func cppName(kind string, n *sitter.Node, source []byte) string {
	if kind == "class" {
		return childText(n, "name", source)
	}
	var nameNode *sitter.Node
	switch {
	case findDescendantByType(n, "field_identifier") != nil:
		nameNode = findDescendantByType(n, "field_identifier")
	case findDescendantByType(n, "operator_name") != nil:
		nameNode = findDescendantByType(n, "operator_name")
	case findDescendantByType(n, "identifier") != nil:
		nameNode = findDescendantByType(n, "identifier")
	}
	if nameNode == nil {
		return ""
	}
	name := text(nameNode, source)
	if qi := findDescendantByType(n, "qualified_identifier"); qi != nil {
		if scope := childText(qi, "scope", source); scope != "" {
			return scope + "::" + name
		}
	}
	return name
}

// cppIsDestructor reports whether a method capture's name resolves through
// a destructor_name node (~Foo()); destructors never surface.
func cppIsDestructor(n *sitter.Node) bool {
	return findDescendantByType(n, "destructor_name") != nil
}
