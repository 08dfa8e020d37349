package builder

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sammcj/outline/internal/grammar"
)

func parseTree(t *testing.T, language, source string) (*sitter.Node, []byte) {
	t.Helper()
	lang, ok := grammar.Language(language)
	if !ok {
		t.Fatalf("no grammar registered for %s", language)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		t.Fatalf("failed to parse %s source: %v", language, err)
	}
	t.Cleanup(tree.Close)
	return tree.RootNode(), []byte(source)
}

func collectByType(n *sitter.Node, nodeType string, out *[]*sitter.Node) {
	cnt := int(n.ChildCount())
	for i := 0; i < cnt; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if c.Type() == nodeType {
			*out = append(*out, c)
		}
		collectByType(c, nodeType, out)
	}
}

func TestRubyAncestorPath(t *testing.T) {
	source := `module A
  module B
    class C
      def m
      end
    end
  end
end
`
	root, src := parseTree(t, "ruby", source)

	method := findDescendantByType(root, "method")
	if method == nil {
		t.Fatal("no method node found")
	}
	if got := rubyAncestorPath(method, src); got != "A::B::C" {
		t.Errorf("rubyAncestorPath(m) = %q, want %q", got, "A::B::C")
	}

	class := findDescendantByType(root, "class")
	if got := rubyOwnFQN(class, src); got != "A::B::C" {
		t.Errorf("rubyOwnFQN(C) = %q, want %q", got, "A::B::C")
	}

	module := findDescendantByType(root, "module")
	if got := rubyOwnFQN(module, src); got != "A" {
		t.Errorf("rubyOwnFQN(A) = %q, want %q", got, "A")
	}
}

func TestRubyAccessibility(t *testing.T) {
	source := `class C
  def pub_m
  end
  private
  def priv_m
  end
end
`
	root, src := parseTree(t, "ruby", source)

	var methods []*sitter.Node
	collectByType(root, "method", &methods)
	if len(methods) != 2 {
		t.Fatalf("expected 2 method nodes, got %d", len(methods))
	}
	if got := rubyAccessibility(methods[0], src); got != "" {
		t.Errorf("rubyAccessibility(pub_m) = %q, want empty", got)
	}
	if got := rubyAccessibility(methods[1], src); got != "private" {
		t.Errorf("rubyAccessibility(priv_m) = %q, want %q", got, "private")
	}
}

func TestCppNameResolution(t *testing.T) {
	source := `class Foo {
public:
    int bar(int a) { return a; }
};

int Foo::baz(int a) { return a; }
`
	root, src := parseTree(t, "cpp", source)

	var defs []*sitter.Node
	collectByType(root, "function_definition", &defs)
	if len(defs) != 2 {
		t.Fatalf("expected 2 function_definition nodes, got %d", len(defs))
	}
	if got := cppName("method", defs[0], src); got != "bar" {
		t.Errorf("cppName(bar) = %q, want %q", got, "bar")
	}
	if got := cppName("method", defs[1], src); got != "Foo::baz" {
		t.Errorf("cppName(Foo::baz) = %q, want %q", got, "Foo::baz")
	}
}

func TestCppDestructor(t *testing.T) {
	source := `class Foo {
public:
    ~Foo() {}
    int bar() { return 1; }
};
`
	root, _ := parseTree(t, "cpp", source)

	var defs []*sitter.Node
	collectByType(root, "function_definition", &defs)
	if len(defs) != 2 {
		t.Fatalf("expected 2 function_definition nodes, got %d", len(defs))
	}
	if !cppIsDestructor(defs[0]) {
		t.Error("cppIsDestructor(~Foo) = false, want true")
	}
	if cppIsDestructor(defs[1]) {
		t.Error("cppIsDestructor(bar) = true, want false")
	}
}

func TestZigContainerHelpers(t *testing.T) {
	source := `pub const Foo = struct {
    a: u32,
};

const Bar = enum {
    x,
};
`
	root, src := parseTree(t, "zig", source)

	var decls []*sitter.Node
	collectByType(root, "variable_declaration", &decls)
	if len(decls) != 2 {
		t.Fatalf("expected 2 variable_declaration nodes, got %d", len(decls))
	}

	if !zigIsPub(decls[0], src) {
		t.Error("zigIsPub(Foo) = false, want true")
	}
	if got := zigContainerKind(decls[0], src); got != "struct" {
		t.Errorf("zigContainerKind(Foo) = %q, want %q", got, "struct")
	}
	if got := zigContainerName(decls[0], src); got != "Foo" {
		t.Errorf("zigContainerName(Foo) = %q, want %q", got, "Foo")
	}

	if zigIsPub(decls[1], src) {
		t.Error("zigIsPub(Bar) = true, want false")
	}
	if got := zigContainerKind(decls[1], src); got != "enum" {
		t.Errorf("zigContainerKind(Bar) = %q, want %q", got, "enum")
	}
	if got := zigContainerName(decls[1], src); got != "Bar" {
		t.Errorf("zigContainerName(Bar) = %q, want %q", got, "Bar")
	}
}

func TestElixirCallHelpers(t *testing.T) {
	source := `defmodule Foo do
  def bar(a, b) do
    a
  end
end
`
	root, src := parseTree(t, "elixir", source)

	var calls []*sitter.Node
	collectByType(root, "call", &calls)
	if len(calls) == 0 {
		t.Fatal("no call nodes found")
	}
	if got := elixirCallKind(calls[0], src); got != "defmodule" {
		t.Errorf("elixirCallKind(defmodule) = %q, want %q", got, "defmodule")
	}

	var defCall *sitter.Node
	for _, c := range calls {
		if elixirCallKind(c, src) == "def" {
			defCall = c
			break
		}
	}
	if defCall == nil {
		t.Fatal("no def call found")
	}

	name, params := elixirNameAndParams(defCall, src)
	if name != "bar" || params != "(a, b)" {
		t.Errorf("elixirNameAndParams = (%q, %q), want (%q, %q)", name, params, "bar", "(a, b)")
	}
	if got := elixirEnclosingModule(defCall, src); got != "Foo" {
		t.Errorf("elixirEnclosingModule(bar) = %q, want %q", got, "Foo")
	}
}
