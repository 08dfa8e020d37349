// Package builder turns a raw capture stream into a symbolmodel.Model,
// applying the per-language name, visibility and container-resolution
// rules documented per capture kind.
package builder

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sammcj/outline/internal/capture"
	"github.com/sammcj/outline/internal/symbolmodel"
)

// Build runs the decision core over one file's capture stream: each capture
// is deduplicated by node span within its own kind, dispatched to a
// per-kind handler, and the model is swept once more at the end for rules
// that only make sense after every capture has landed (the Rust visibility
// pass).
func Build(language string, captures []capture.Capture, source []byte) *symbolmodel.Model {
	m := symbolmodel.New()
	for _, c := range captures {
		if c.Node == nil {
			continue
		}
		if m.MarkSeen(c.Kind, c.Node.StartByte(), c.Node.EndByte()) {
			continue
		}
		dispatch(language, c.Kind, c.Node, source, m)
	}
	finalize(language, m)
	return m
}

func dispatch(language, kind string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	switch kind {
	case "class":
		buildClass(language, n, source, m)
	case "module":
		buildModule(language, n, source, m)
	case "method":
		buildMethod(language, n, source, m)
	case "class_variable":
		buildClassVariable(language, n, source, m)
	case "class_assignment":
		buildClassAssignment(language, n, source, m)
	case "function", "arrow_function":
		buildFunction(language, n, source, m)
	case "variable", "assignment":
		buildVariable(language, kind, n, source, m)
	case "enum_item":
		buildEnumItem(language, n, source, m)
	case "union_item":
		buildUnionItem(language, n, source, m)
	}
}

// languageExcludes implements the visibility-drop rules that apply
// uniformly across every capture kind for a given language.
// Rust's check is a descendant search on the captured node itself - which
// is why enum_variant captures never survive it, since a variant's own
// subtree never contains a visibility_modifier. C#'s stricter "require an
// explicit modifier" rule only applies to method/class_variable and is
// handled inline where those are built.
func languageExcludes(language string, n *sitter.Node, source []byte) bool {
	switch language {
	case "rust":
		return !rustHasPubDescendant(n, source)
	case "swift":
		vis := findDescendantByType(n, "visibility_modifier")
		return vis != nil && strings.Contains(text(vis, source), "private")
	case "java":
		mods := findDescendantByType(n, "modifiers")
		return mods != nil && strings.Contains(text(mods, source), "private")
	case "zig":
		// Container members inherit the enclosing declaration's pub;
		// declarations carry their own pub prefix in this grammar.
		if vd := findAncestorByType(n, "variable_declaration"); vd != nil && !zigIsPub(vd, source) {
			return true
		}
		switch n.Type() {
		case "variable_declaration", "function_declaration":
			return !strings.HasPrefix(trimmed(n, source), "pub")
		}
		return false
	default:
		return false
	}
}

func rustHasPubDescendant(n *sitter.Node, source []byte) bool {
	vis := findDescendantByType(n, "visibility_modifier")
	return vis != nil && strings.Contains(text(vis, source), "pub")
}

// methodContainer resolves the enclosing class/module/impl name for
// method, function (to decide nesting) and variable (to decide nesting)
// captures. Each language's own grammar shape decides where that name
// actually lives; everything not special-cased climbs ancestors until one
// exposes a "name" field.
func methodContainer(language string, n *sitter.Node, source []byte) string {
	switch language {
	case "rust":
		if impl := findAncestorByType(n, "impl_item"); impl != nil {
			return childText(impl, "type", source)
		}
		return ""
	case "go":
		if recv := n.ChildByFieldName("receiver"); recv != nil {
			if ti := findDescendantByType(recv, "type_identifier"); ti != nil {
				return text(ti, source)
			}
		}
		return ""
	case "cpp":
		if cs := findAncestorByType(n, "class_specifier", "struct_specifier"); cs != nil {
			return childText(cs, "name", source)
		}
		return ""
	case "csharp":
		if cs := findAncestorByType(n, "class_declaration", "record_declaration"); cs != nil {
			return childText(cs, "name", source)
		}
		return ""
	case "ruby":
		return rubyAncestorPath(n, source)
	case "zig":
		if vd := findAncestorByType(n, "variable_declaration"); vd != nil {
			return zigContainerName(vd, source)
		}
		return ""
	case "elixir":
		return elixirEnclosingModule(n, source)
	default:
		return closestAncestorName(n, source)
	}
}

// propertyContainer resolves the enclosing container for class_variable,
// class_assignment, enum_item and union_item captures. Unlike
// methodContainer, Rust/Go/C++/C# all fall through to the generic
// closestAncestorName walk here: a struct's own fields sit inside the
// struct_item itself (which carries a name field), not inside an impl
// block, so the impl/receiver cascade method resolution uses would find
// nothing.
func propertyContainer(language, kind string, n *sitter.Node, source []byte) string {
	switch language {
	case "ruby":
		return rubyAncestorPath(n, source)
	case "zig":
		if vd := findAncestorByType(n, "variable_declaration"); vd != nil {
			return zigContainerName(vd, source)
		}
		return ""
	case "elixir":
		return elixirEnclosingModule(n, source)
	case "scala":
		if kind == "enum_item" {
			if ed := findAncestorByType(n, "enum_definition"); ed != nil {
				return childText(ed, "name", source)
			}
			return ""
		}
		return closestAncestorName(n, source)
	default:
		return closestAncestorName(n, source)
	}
}

// typeOf implements the shared "value type" lookup: prefer a
// predefined_type descendant (TypeScript/C#/JS-family built-ins), else the
// node's own type field.
func typeOf(language string, n *sitter.Node, source []byte) string {
	if pt := findDescendantByType(n, "predefined_type"); pt != nil {
		return text(pt, source)
	}
	return childText(n, "type", source)
}

func buildClass(language string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	if (language == "swift" || language == "java") && languageExcludes(language, n, source) {
		return
	}
	if findAncestorByType(n, funcNestKinds...) != nil {
		return
	}

	var name string
	switch language {
	case "ruby":
		name = rubyOwnFQN(n, source)
	default:
		name = childText(n, "name", source)
	}
	if name == "" {
		return
	}
	if language == "go" && !isUpperFirst(name) {
		return
	}

	c := m.Class(name, "class")
	if language == "rust" {
		if vis := findChildByType(n, "visibility_modifier"); vis != nil {
			c.VisibilityTag = text(vis, source)
		}
	}
}

func buildModule(language string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	if findAncestorByType(n, funcNestKinds...) != nil {
		return
	}
	var name string
	switch language {
	case "ruby":
		name = rubyOwnFQN(n, source)
	default:
		name = childText(n, "name", source)
	}
	if name == "" {
		return
	}
	m.Class(name, "module")
}

func buildMethod(language string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	if languageExcludes(language, n, source) {
		return
	}

	if language == "csharp" && n.Type() == "parameter_list" {
		buildCSharpPrimaryConstructor(n, source, m)
		return
	}

	// A method whose class is itself declared inside a function body never
	// surfaces (the class capture is dropped the same way).
	if findAncestorByType(n, funcNestKinds...) != nil {
		return
	}

	var name string
	switch language {
	case "cpp":
		if cppIsDestructor(n) {
			return
		}
		name = cppName("method", n, source)
	case "scala":
		name = childText(n, "name", source)
		if name == "" {
			name = childText(n, "pattern", source)
		}
	case "elixir":
		if elixirCallKind(n, source) != "def" {
			return
		}
		name, _ = elixirNameAndParams(n, source)
	default:
		name = childText(n, "name", source)
	}
	if name == "" {
		return
	}
	if language == "go" && !isUpperFirst(name) {
		return
	}

	if language == "csharp" {
		mod := findChildByType(n, "modifier")
		if mod == nil || strings.Contains(text(mod, source), "private") {
			return
		}
	}

	containerName := methodContainer(language, n, source)
	if containerName == "" {
		// Genuinely top-level: already represented by the sibling
		// "function" capture on this same node.
		return
	}
	if language == "go" && !isUpperFirst(containerName) {
		return
	}

	params := paramsOf(language, n, source)
	returnType := returnTypeOf(language, n, source)
	if (language == "cpp" || language == "csharp") && name == containerName {
		returnType = containerName
	}

	f := symbolmodel.Function{Name: name, Params: params, ReturnType: returnType}
	if language == "ruby" {
		f.VisibilityTag = rubyAccessibility(n, source)
	}

	c := m.Class(containerName, "class")
	c.Methods = append(c.Methods, f)
}

func buildCSharpPrimaryConstructor(n *sitter.Node, source []byte, m *symbolmodel.Model) {
	container := findAncestorByType(n, "class_declaration", "record_declaration")
	if container == nil {
		return
	}
	typeName := childText(container, "name", source)
	if typeName == "" {
		return
	}
	f := symbolmodel.Function{Name: typeName, Params: text(n, source), ReturnType: typeName}
	c := m.Class(typeName, "class")
	c.Methods = append(c.Methods, f)
}

// classVariableName derives a class_variable capture's own name. Several
// grammars don't expose it through a "name" field directly on the captured
// node, so each needs its own descendant walk; PHP instead keeps the whole
// property_declaration text verbatim minus its trailing semicolon, which
// preserves the visibility keyword and default value (the modifier is a
// sibling of the property_element, so capturing anything narrower would
// lose it).
func classVariableName(language string, n *sitter.Node, source []byte) string {
	switch language {
	case "php":
		return strings.TrimSpace(strings.TrimSuffix(trimmed(n, source), ";"))
	case "c", "cpp":
		if fi := findDescendantByType(n, "field_identifier"); fi != nil {
			return text(fi, source)
		}
		return ""
	case "csharp", "java":
		if vd := findDescendantByType(n, "variable_declarator"); vd != nil {
			return childText(vd, "name", source)
		}
		return ""
	case "javascript", "typescript":
		// The TSX grammar's public_field_definition names the field through
		// "name", the JavaScript grammar's field_definition through
		// "property".
		if name := childText(n, "name", source); name != "" {
			return name
		}
		return childText(n, "property", source)
	case "scala":
		if p := childText(n, "pattern", source); p != "" {
			return p
		}
		return childText(n, "name", source)
	case "swift":
		if id := findDescendantByType(n, "simple_identifier"); id != nil {
			return text(id, source)
		}
		return ""
	case "zig":
		if name := childText(n, "name", source); name != "" {
			return name
		}
		if id := findDescendantByType(n, "identifier"); id != nil {
			return text(id, source)
		}
		return ""
	default:
		return childText(n, "name", source)
	}
}

func buildClassVariable(language string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	if languageExcludes(language, n, source) {
		return
	}
	if language == "zig" {
		// container_field covers struct fields, enum members and union
		// members alike; the latter two belong to their own capture kinds.
		vd := findAncestorByType(n, "variable_declaration")
		if vd == nil || zigContainerKind(vd, source) != "struct" {
			return
		}
	}

	name := classVariableName(language, n, source)
	if name == "" {
		return
	}

	containerName := propertyContainer(language, "class_variable", n, source)
	if containerName == "" {
		return
	}
	if language == "go" {
		if !isUpperFirst(name) || !isUpperFirst(containerName) {
			return
		}
	}
	if language == "csharp" {
		mod := findChildByType(n, "modifier")
		if mod == nil || strings.Contains(text(mod, source), "private") {
			return
		}
	}

	valueType := ""
	if language != "php" {
		valueType = typeOf(language, n, source)
	}

	c := m.Class(containerName, "class")
	c.Properties = append(c.Properties, symbolmodel.Variable{Name: name, Type: valueType})
}

func buildClassAssignment(language string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	if languageExcludes(language, n, source) {
		return
	}
	left := childText(n, "left", source)
	if left == "" {
		return
	}
	containerName := propertyContainer(language, "class_assignment", n, source)
	if containerName == "" {
		return
	}
	if language == "go" && (!isUpperFirst(left) || !isUpperFirst(containerName)) {
		return
	}
	c := m.Class(containerName, "class")
	c.Properties = append(c.Properties, symbolmodel.Variable{Name: left, Type: typeOf(language, n, source)})
}

// nestedFuncKinds lists the node types that, when found as an ancestor of
// a function/variable capture, mean the capture describes something other
// than a genuinely top-level symbol (a closure body, a class method
// already covered by its own "method" capture).
var nestedFuncKinds = []string{
	"impl_item", "class_specifier", "struct_specifier",
	"function_declaration", "function_definition", "function_item",
	"method_declaration", "arrow_function",
}

// funcNestKinds lists the function-like node types (the function kinds of
// nestedFuncKinds plus method_definition and Ruby's method), used for
// class/module/method captures: a class declared inside a function body is
// local state, not part of the file's surface, but a class nested inside
// another class (C++ inner classes, Ruby module paths) still counts.
var funcNestKinds = []string{
	"function_declaration", "function_definition", "function_item",
	"method_declaration", "method_definition", "arrow_function", "method",
}

func buildFunction(language string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	if languageExcludes(language, n, source) {
		return
	}
	if findAncestorByType(n, nestedFuncKinds...) != nil {
		return
	}
	if methodContainer(language, n, source) != "" {
		return
	}

	var name string
	if language == "elixir" {
		if elixirCallKind(n, source) != "def" {
			return
		}
		name, _ = elixirNameAndParams(n, source)
	} else {
		name = childText(n, "name", source)
	}
	if name == "" && (language == "c" || language == "cpp") {
		// function_definition names hide inside the declarator.
		name = cppName("function", n, source)
	}
	if name == "" {
		return
	}
	if language == "go" && !isUpperFirst(name) {
		return
	}
	if language == "csharp" {
		mod := findChildByType(n, "modifier")
		if mod == nil || strings.Contains(text(mod, source), "private") {
			return
		}
	}

	params := paramsOf(language, n, source)
	returnType := returnTypeOf(language, n, source)

	m.AddTop(symbolmodel.NewFunctionSymbol(symbolmodel.Function{
		Name: name, Params: params, ReturnType: returnType,
	}))
}

func buildVariable(language, kind string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	if languageExcludes(language, n, source) {
		return
	}
	if findAncestorByType(n, nestedFuncKinds...) != nil {
		return
	}
	if methodContainer(language, n, source) != "" {
		return
	}

	name := childText(n, "name", source)
	if name == "" && kind == "assignment" {
		name = childText(n, "left", source)
	}
	if name == "" && (language == "c" || language == "cpp") {
		// declaration nodes carry a declarator, not a name field. The walk
		// is restricted to the declarator subtree so a bodied type
		// declaration (struct X {...};) yields nothing instead of its
		// first member.
		name = cppName("variable", n.ChildByFieldName("declarator"), source)
	}
	if name == "" && (language == "zig" || language == "lua") {
		if id := findDescendantByType(n, "identifier"); id != nil {
			name = text(id, source)
		}
	}
	if name == "" {
		return
	}
	if language == "go" && !isUpperFirst(name) {
		return
	}

	value := n.ChildByFieldName("value")
	if value == nil && kind == "assignment" {
		value = n.ChildByFieldName("right")
	}
	if value != nil && value.Type() == "arrow_function" {
		m.AddTop(symbolmodel.NewFunctionSymbol(symbolmodel.Function{
			Name:       name,
			Params:     paramsOf(language, value, source),
			ReturnType: returnTypeOf(language, value, source),
		}))
		return
	}

	if language == "zig" {
		// Untyped declarations are either containers (covered by their
		// member captures) or inferred locals; only annotated ones render.
		valueType := childText(n, "type", source)
		if valueType == "" {
			return
		}
		m.AddTop(symbolmodel.NewVariableSymbol(symbolmodel.Variable{Name: name, Type: valueType}))
		return
	}

	m.AddTop(symbolmodel.NewVariableSymbol(symbolmodel.Variable{Name: name, Type: typeOf(language, n, source)}))
}

func buildEnumItem(language string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	if languageExcludes(language, n, source) {
		return
	}
	if language == "zig" {
		vd := findAncestorByType(n, "variable_declaration")
		if vd == nil || zigContainerKind(vd, source) != "enum" {
			return
		}
	}

	name := childText(n, "name", source)
	if name == "" {
		if id := findDescendantByType(n, "identifier"); id != nil {
			name = text(id, source)
		} else {
			name = trimmed(n, source)
		}
	}
	if name == "" {
		return
	}

	containerName := propertyContainer(language, "enum_item", n, source)
	if containerName == "" {
		return
	}

	e := m.Enum(containerName)
	e.Items = append(e.Items, symbolmodel.Variable{Name: name, Type: typeOf(language, n, source)})
}

func buildUnionItem(language string, n *sitter.Node, source []byte, m *symbolmodel.Model) {
	if language != "zig" {
		return
	}
	if languageExcludes(language, n, source) {
		return
	}
	vd := findAncestorByType(n, "variable_declaration")
	if vd == nil || zigContainerKind(vd, source) != "union" {
		return
	}
	name := childText(n, "name", source)
	if name == "" {
		if id := findDescendantByType(n, "identifier"); id != nil {
			name = text(id, source)
		}
	}
	if name == "" {
		return
	}
	containerName := zigContainerName(vd, source)
	if containerName == "" {
		return
	}
	u := m.Union(containerName)
	u.Items = append(u.Items, symbolmodel.Variable{Name: name, Type: typeOf(language, n, source)})
}

func paramsOf(language string, n *sitter.Node, source []byte) string {
	switch language {
	case "zig":
		fd := n
		if n.Type() != "function_declaration" {
			fd = findAncestorByType(n, "function_declaration")
		}
		if fd != nil {
			if p := fd.ChildByFieldName("parameters"); p != nil {
				return text(p, source)
			}
		}
		return "()"
	case "elixir":
		_, params := elixirNameAndParams(n, source)
		if params == "" {
			return "()"
		}
		return params
	}
	if p := n.ChildByFieldName("parameters"); p != nil {
		return text(p, source)
	}
	if p := findDescendantByType(n, "parameter_list"); p != nil {
		return text(p, source)
	}
	if p := findDescendantByType(n, "parameters"); p != nil {
		return text(p, source)
	}
	return "()"
}

func returnTypeOf(language string, n *sitter.Node, source []byte) string {
	var rt *sitter.Node
	switch language {
	case "cpp", "java":
		rt = n.ChildByFieldName("type")
	case "csharp":
		rt = n.ChildByFieldName("returns")
	default:
		rt = n.ChildByFieldName("return_type")
		if rt == nil {
			rt = n.ChildByFieldName("result")
		}
	}

	emptyDefault := "void"
	if language == "elixir" {
		emptyDefault = ""
	}
	if rt == nil {
		return emptyDefault
	}
	if pt := findDescendantByType(rt, "predefined_type"); pt != nil {
		return text(pt, source)
	}
	t := trimmed(rt, source)
	if t == "" {
		return emptyDefault
	}
	return t
}

func finalize(language string, m *symbolmodel.Model) {
	if language != "rust" {
		return
	}
	for name, c := range m.Classes {
		if c.KindLabel != "class" {
			continue
		}
		if !strings.Contains(c.VisibilityTag, "pub") {
			delete(m.Classes, name)
		}
	}
}
