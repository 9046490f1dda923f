package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureOrder(t *testing.T) {
	s := NewStructure()
	s.Set("name", Text("A"))
	s.Set("age", Integer(30))
	s.Set("name", Text("B"))

	assert.Equal(t, []string{"name", "age"}, s.Fields())
	assert.Equal(t, []Value{Text("B"), Integer(30)}, s.Values())
	assert.Equal(t, 2, s.Len())
}

func TestTableAppendSnapshots(t *testing.T) {
	env := NewEnvironment()
	env.DeclareTable("people", "ty_person")
	env.SetField("wa", "name", Text("A"))
	require.True(t, env.Append("wa", "people"))

	env.SetField("wa", "name", Text("B"))
	require.True(t, env.Append("wa", "people"))

	table, ok := env.Table("people")
	require.True(t, ok)
	require.Equal(t, 2, table.Len())

	first, _ := table.Rows()[0].Get("name")
	second, _ := table.Rows()[1].Get("name")
	assert.Equal(t, "A", first.String(), "appended rows must not change with the source")
	assert.Equal(t, "B", second.String())
}

func TestAppendUnknownNames(t *testing.T) {
	env := NewEnvironment()
	env.DeclareTable("t", "row")
	env.DeclareScalar("x", Integer(1))

	assert.False(t, env.Append("missing", "t"))
	assert.False(t, env.Append("x", "t"), "a scalar is not a structure")

	env.SetField("wa", "f", Integer(1))
	assert.False(t, env.Append("wa", "missing"))

	table, _ := env.Table("t")
	assert.Equal(t, 0, table.Len())
}

func TestSetFieldPromotesScalar(t *testing.T) {
	env := NewEnvironment()
	env.DeclareScalar("wa", Integer(0))
	env.SetField("wa", "f", Text("v"))

	_, isScalar := env.Scalar("wa")
	assert.False(t, isScalar)
	v, ok := env.Field("wa", "f")
	require.True(t, ok)
	assert.Equal(t, "v", v.String())
}

func TestAdd(t *testing.T) {
	t.Run("adds to existing integer", func(t *testing.T) {
		env := NewEnvironment()
		env.DeclareScalar("x", Integer(5))
		assert.Equal(t, Integer(8), env.Add("x", 3))
	})

	t.Run("missing value counts as zero", func(t *testing.T) {
		env := NewEnvironment()
		assert.Equal(t, Integer(2), env.Add("y", 2))
	})

	t.Run("non-numeric value counts as zero", func(t *testing.T) {
		env := NewEnvironment()
		env.DeclareScalar("z", Text("abc"))
		assert.Equal(t, Integer(1), env.Add("z", 1))
	})

	t.Run("adds to a field", func(t *testing.T) {
		env := NewEnvironment()
		env.SetField("s", "n", Integer(1))
		assert.Equal(t, Integer(11), env.AddField("s", "n", 10))
	})
}

func TestClear(t *testing.T) {
	env := NewEnvironment()
	env.DeclareScalar("n", Integer(3))
	env.DeclareScalar("s", Text("x"))
	env.SetField("wa", "a", Integer(1))
	env.SetField("wa", "b", Text("y"))
	env.DeclareTable("t", "row")
	env.Append("wa", "t")

	assert.True(t, env.Clear("n"))
	assert.True(t, env.Clear("s"))
	assert.True(t, env.Clear("wa"))
	assert.True(t, env.Clear("t"))
	assert.False(t, env.Clear("missing"))

	n, _ := env.Scalar("n")
	s, _ := env.Scalar("s")
	wa, _ := env.Structure("wa")
	table, _ := env.Table("t")
	assert.Equal(t, Integer(0), n)
	assert.Equal(t, Text(""), s)
	assert.Equal(t, []Value{Integer(0), Text("")}, wa.Values())
	assert.Equal(t, 0, table.Len())
}

func TestAssignStructureCopies(t *testing.T) {
	env := NewEnvironment()
	env.SetField("a", "f", Integer(1))
	src, _ := env.Structure("a")
	env.AssignStructure("b", src)
	env.SetField("a", "f", Integer(2))

	v, _ := env.Field("b", "f")
	assert.Equal(t, Integer(1), v)
}

func TestNames(t *testing.T) {
	env := NewEnvironment()
	env.DeclareScalar("z", Integer(0))
	env.SetField("a", "f", Integer(0))
	env.DeclareTable("m", "row")
	assert.Equal(t, []string{"a", "m", "z"}, env.Names())
}
