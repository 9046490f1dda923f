package runtime

import (
	"sort"
)

// Structure maps field names to values and remembers the order in which
// fields were first assigned.
type Structure struct {
	order  []string
	fields map[string]Value
}

// NewStructure creates an empty structure
func NewStructure() *Structure {
	return &Structure{fields: make(map[string]Value)}
}

// Get returns a field value
func (s *Structure) Get(field string) (Value, bool) {
	v, ok := s.fields[field]
	return v, ok
}

// Set assigns a field, creating it on first use
func (s *Structure) Set(field string, v Value) {
	if _, ok := s.fields[field]; !ok {
		s.order = append(s.order, field)
	}
	s.fields[field] = v
}

// Fields returns field names in first-assignment order
func (s *Structure) Fields() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Values returns field values in first-assignment order
func (s *Structure) Values() []Value {
	out := make([]Value, len(s.order))
	for i, name := range s.order {
		out[i] = s.fields[name]
	}
	return out
}

// Len returns the number of fields
func (s *Structure) Len() int {
	return len(s.order)
}

// Clone returns an independent copy. Values are immutable, so a shallow copy
// of the map is a full snapshot.
func (s *Structure) Clone() *Structure {
	c := &Structure{
		order:  make([]string, len(s.order)),
		fields: make(map[string]Value, len(s.fields)),
	}
	copy(c.order, s.order)
	for k, v := range s.fields {
		c.fields[k] = v
	}
	return c
}

// Reset sets every field back to the initial value of its domain
func (s *Structure) Reset() {
	for k, v := range s.fields {
		s.fields[k] = v.Initial()
	}
}

// Table is an ordered, append-only sequence of structure snapshots.
type Table struct {
	RowType string
	rows    []*Structure
}

// Append stores a snapshot of row
func (t *Table) Append(row *Structure) {
	t.rows = append(t.rows, row.Clone())
}

// Rows returns the rows in append order. Callers must not modify them.
func (t *Table) Rows() []*Structure {
	return t.rows
}

// Len returns the row count
func (t *Table) Len() int {
	return len(t.rows)
}

// Clear removes all rows
func (t *Table) Clear() {
	t.rows = nil
}

// Environment owns the scalars, structures and tables of one execution.
// A name is bound to at most one scalar or structure; tables live in their
// own namespace.
type Environment struct {
	scalars    map[string]Value
	structures map[string]*Structure
	tables     map[string]*Table
}

// NewEnvironment creates an empty environment
func NewEnvironment() *Environment {
	return &Environment{
		scalars:    make(map[string]Value),
		structures: make(map[string]*Structure),
		tables:     make(map[string]*Table),
	}
}

// DeclareScalar binds name to v, replacing any previous variable binding
func (e *Environment) DeclareScalar(name string, v Value) {
	delete(e.structures, name)
	e.scalars[name] = v
}

// DeclareStructure binds name to an empty structure
func (e *Environment) DeclareStructure(name string) *Structure {
	delete(e.scalars, name)
	s := NewStructure()
	e.structures[name] = s
	return s
}

// DeclareTable binds name to an empty table
func (e *Environment) DeclareTable(name, rowType string) *Table {
	t := &Table{RowType: rowType}
	e.tables[name] = t
	return t
}

// Scalar reads a scalar
func (e *Environment) Scalar(name string) (Value, bool) {
	v, ok := e.scalars[name]
	return v, ok
}

// SetScalar writes a scalar, replacing a structure of the same name
func (e *Environment) SetScalar(name string, v Value) {
	e.DeclareScalar(name, v)
}

// Structure reads a structure
func (e *Environment) Structure(name string) (*Structure, bool) {
	s, ok := e.structures[name]
	return s, ok
}

// Field reads a structure field
func (e *Environment) Field(name, field string) (Value, bool) {
	s, ok := e.structures[name]
	if !ok {
		return Value{}, false
	}
	return s.Get(field)
}

// SetField writes a structure field. An undeclared name, or one bound to a
// scalar, becomes an empty structure first.
func (e *Environment) SetField(name, field string, v Value) {
	s, ok := e.structures[name]
	if !ok {
		s = e.DeclareStructure(name)
	}
	s.Set(field, v)
}

// AssignStructure binds name to a snapshot of src, replacing any scalar
func (e *Environment) AssignStructure(name string, src *Structure) {
	delete(e.scalars, name)
	e.structures[name] = src.Clone()
}

// Table reads a table
func (e *Environment) Table(name string) (*Table, bool) {
	t, ok := e.tables[name]
	return t, ok
}

// Add adds n to a scalar; a missing or non-numeric current value counts as 0.
func (e *Environment) Add(name string, n int64) Value {
	current, _ := e.scalars[name]
	sum := Integer(current.IntOrZero() + n)
	e.SetScalar(name, sum)
	return sum
}

// AddField is Add for a structure field
func (e *Environment) AddField(name, field string, n int64) Value {
	current, _ := e.Field(name, field)
	sum := Integer(current.IntOrZero() + n)
	e.SetField(name, field, sum)
	return sum
}

// Append copies structure src into table dst. It reports false, changing
// nothing, when either side is not declared.
func (e *Environment) Append(src, dst string) bool {
	s, ok := e.structures[src]
	if !ok {
		return false
	}
	t, ok := e.tables[dst]
	if !ok {
		return false
	}
	t.Append(s)
	return true
}

// Clear resets a scalar, structure or table to its initial state
func (e *Environment) Clear(name string) bool {
	if v, ok := e.scalars[name]; ok {
		e.scalars[name] = v.Initial()
		return true
	}
	if s, ok := e.structures[name]; ok {
		s.Reset()
		return true
	}
	if t, ok := e.tables[name]; ok {
		t.Clear()
		return true
	}
	return false
}

// ClearField resets one structure field to its initial value
func (e *Environment) ClearField(name, field string) bool {
	s, ok := e.structures[name]
	if !ok {
		return false
	}
	v, ok := s.Get(field)
	if !ok {
		return false
	}
	s.Set(field, v.Initial())
	return true
}

// Names returns every declared variable and table name, sorted
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.scalars)+len(e.structures)+len(e.tables))
	for n := range e.scalars {
		names = append(names, n)
	}
	for n := range e.structures {
		names = append(names, n)
	}
	for n := range e.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
