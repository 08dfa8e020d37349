package serialize

import (
	"strings"
	"testing"

	"github.com/sammcj/outline/internal/symbolmodel"
)

func TestModelOrdering(t *testing.T) {
	m := symbolmodel.New()
	m.AddTop(symbolmodel.NewVariableSymbol(symbolmodel.Variable{Name: "first", Type: "u32"}))
	m.AddTop(symbolmodel.NewFunctionSymbol(symbolmodel.Function{Name: "second", Params: "(a, b)", ReturnType: "void"}))

	// Classes are inserted out of key order; emission must sort them.
	b := m.Class("Beta", "class")
	b.Methods = append(b.Methods, symbolmodel.Function{Name: "m", Params: "(x)", ReturnType: "void"})
	a := m.Class("Alpha", "module")
	a.Properties = append(a.Properties, symbolmodel.Variable{Name: "p", Type: "string"})

	e := m.Enum("Colour")
	e.Items = append(e.Items, symbolmodel.Variable{Name: "Red"}, symbolmodel.Variable{Name: "Green", Type: "u8"})

	u := m.Union("Value")
	u.Items = append(u.Items, symbolmodel.Variable{Name: "int_val", Type: "i64"})

	got := Model(m)
	want := "var first:u32;func second(a, b) -> void;" +
		"module Alpha{var p:string;};class Beta{func m(x) -> void;};" +
		"enum Colour{Red;Green:u8;};union Value{int_val:i64;};"
	if got != want {
		t.Errorf("Model() = %q, want %q", got, want)
	}
}

func TestFunctionRendering(t *testing.T) {
	m := symbolmodel.New()
	m.AddTop(symbolmodel.NewFunctionSymbol(symbolmodel.Function{Name: "bare"}))
	m.AddTop(symbolmodel.NewFunctionSymbol(symbolmodel.Function{Name: "tagged", Params: "(a)", ReturnType: "void", VisibilityTag: "private"}))

	got := Model(m)
	if !strings.Contains(got, "func bare();") {
		t.Errorf("empty params must render as (): %q", got)
	}
	if !strings.Contains(got, "private func tagged(a) -> void;") {
		t.Errorf("visibility tag must prefix the rendered function: %q", got)
	}
}

func TestEmptyModel(t *testing.T) {
	if got := Model(symbolmodel.New()); got != "" {
		t.Errorf("empty model must render as empty string, got %q", got)
	}
}
