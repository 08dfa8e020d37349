// Package serialize renders a symbolmodel.Model into the single-line
// outline string: top-level symbols in discovery order, then classes,
// enums and unions in sorted-key order so repeated runs produce identical
// output.
package serialize

import (
	"sort"
	"strings"

	"github.com/sammcj/outline/internal/symbolmodel"
)

// Model renders the whole model. The result contains no newlines and ends
// with ";" whenever it is non-empty.
func Model(m *symbolmodel.Model) string {
	var b strings.Builder
	for _, s := range m.Top {
		switch s.Kind {
		case symbolmodel.KindFunction:
			writeFunction(&b, s.Function)
		case symbolmodel.KindVariable:
			writeVariable(&b, s.Variable)
		}
	}
	for _, name := range sortedKeys(m.Classes) {
		writeClass(&b, m.Classes[name])
	}
	for _, name := range sortedKeys(m.Enums) {
		writeItems(&b, "enum", name, m.Enums[name].Items)
	}
	for _, name := range sortedKeys(m.Unions) {
		writeItems(&b, "union", name, m.Unions[name].Items)
	}
	return b.String()
}

func writeFunction(b *strings.Builder, f symbolmodel.Function) {
	if f.VisibilityTag != "" {
		b.WriteString(f.VisibilityTag)
		b.WriteByte(' ')
	}
	b.WriteString("func ")
	b.WriteString(f.Name)
	if f.Params == "" {
		b.WriteString("()")
	} else {
		b.WriteString(f.Params)
	}
	if f.ReturnType != "" {
		b.WriteString(" -> ")
		b.WriteString(f.ReturnType)
	}
	b.WriteByte(';')
}

func writeVariable(b *strings.Builder, v symbolmodel.Variable) {
	b.WriteString("var ")
	b.WriteString(v.Name)
	if v.Type != "" {
		b.WriteByte(':')
		b.WriteString(v.Type)
	}
	b.WriteByte(';')
}

// writeClass renders both kind labels ("class" and "module"); a class's
// own visibility tag is bookkeeping for the builder's final pass and is
// never rendered.
func writeClass(b *strings.Builder, c *symbolmodel.Class) {
	b.WriteString(c.KindLabel)
	b.WriteByte(' ')
	b.WriteString(c.Name)
	b.WriteByte('{')
	for _, m := range c.Methods {
		writeFunction(b, m)
	}
	for _, p := range c.Properties {
		writeVariable(b, p)
	}
	b.WriteString("};")
}

func writeItems(b *strings.Builder, kind, name string, items []symbolmodel.Variable) {
	b.WriteString(kind)
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteByte('{')
	for _, it := range items {
		b.WriteString(it.Name)
		if it.Type != "" {
			b.WriteByte(':')
			b.WriteString(it.Type)
		}
		b.WriteByte(';')
	}
	b.WriteString("};")
}

func sortedKeys[V any](m map[string]*V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
