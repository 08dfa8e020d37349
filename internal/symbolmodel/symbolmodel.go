// Package symbolmodel holds the language-neutral symbol records the builder
// accumulates while walking a capture stream, and the ordered/keyed model
// that the serializer renders into an outline string.
package symbolmodel

// Function is an exported top-level function or class method.
type Function struct {
	Name          string
	Params        string
	ReturnType    string
	VisibilityTag string
}

// Variable covers top-level vars, class properties, and enum/union items
// uniformly.
type Variable struct {
	Name string
	Type string
}

// Class is accretive: repeated captures naming the same class merge into
// the one record fetched from Model.Class.
type Class struct {
	KindLabel     string // "class" or "module"
	Name          string
	Methods       []Function
	Properties    []Variable
	VisibilityTag string
}

// Enum is accretive, keyed by name.
type Enum struct {
	Name  string
	Items []Variable
}

// Union is Zig-only and accretive, keyed by name.
type Union struct {
	Name  string
	Items []Variable
}

// Kind tags which field of Symbol is populated.
type Kind int

const (
	KindFunction Kind = iota
	KindVariable
	KindClass
	KindEnum
	KindUnion
)

// Symbol is one element of the output stream: a top-level function/variable,
// or a finalised class/enum/union record.
type Symbol struct {
	Kind     Kind
	Function Function
	Variable Variable
	Class    Class
	Enum     Enum
	Union    Union
}

func NewFunctionSymbol(f Function) Symbol { return Symbol{Kind: KindFunction, Function: f} }
func NewVariableSymbol(v Variable) Symbol { return Symbol{Kind: KindVariable, Variable: v} }

// Model is the ordered collection for one outline run. Top holds top-level
// functions/variables in discovery order; Classes/Enums/Unions are keyed
// maps so repeated captures accrete into a single record, finalised in
// sorted-key order by the caller.
type Model struct {
	Top     []Symbol
	Classes map[string]*Class
	Enums   map[string]*Enum
	Unions  map[string]*Union

	// Seen is the per-capture-kind node dedup set: a node is processed at
	// most once per capture kind even when overlapping patterns tag it
	// repeatedly. The key combines the capture kind with a
	// (startByte,endByte) pair, a stable proxy for node identity within
	// one parsed tree.
	Seen map[string]map[[2]uint32]bool
}

func New() *Model {
	return &Model{
		Classes: map[string]*Class{},
		Enums:   map[string]*Enum{},
		Unions:  map[string]*Union{},
		Seen:    map[string]map[[2]uint32]bool{},
	}
}

// MarkSeen records (kind, start, end) and reports whether it was already
// seen before this call.
func (m *Model) MarkSeen(kind string, start, end uint32) (alreadySeen bool) {
	set, ok := m.Seen[kind]
	if !ok {
		set = map[[2]uint32]bool{}
		m.Seen[kind] = set
	}
	key := [2]uint32{start, end}
	if set[key] {
		return true
	}
	set[key] = true
	return false
}

// Class fetches or creates the class/module record for name.
func (m *Model) Class(name, kindLabel string) *Class {
	if c, ok := m.Classes[name]; ok {
		return c
	}
	c := &Class{KindLabel: kindLabel, Name: name}
	m.Classes[name] = c
	return c
}

func (m *Model) Enum(name string) *Enum {
	if e, ok := m.Enums[name]; ok {
		return e
	}
	e := &Enum{Name: name}
	m.Enums[name] = e
	return e
}

func (m *Model) Union(name string) *Union {
	if u, ok := m.Unions[name]; ok {
		return u
	}
	u := &Union{Name: name}
	m.Unions[name] = u
	return u
}

func (m *Model) AddTop(s Symbol) { m.Top = append(m.Top, s) }
