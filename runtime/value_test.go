package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		literal string
		kind    Kind
		text    string
	}{
		{"5", KindInteger, "5"},
		{"-12", KindInteger, "-12"},
		{"+7", KindInteger, "7"},
		{"007", KindInteger, "7"},
		{"abc", KindText, "abc"},
		{"5x", KindText, "5x"},
		{"3.5", KindText, "3.5"},
		{"", KindText, ""},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			v := Coerce(tt.literal)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.text, v.String())
		})
	}
}

func TestValueInt(t *testing.T) {
	t.Run("zero value is integer 0", func(t *testing.T) {
		var v Value
		assert.True(t, v.IsInteger())
		n, ok := v.Int()
		require.True(t, ok)
		assert.Equal(t, int64(0), n)
	})

	t.Run("numeric text reads as integer", func(t *testing.T) {
		n, ok := Text("42").Int()
		require.True(t, ok)
		assert.Equal(t, int64(42), n)
	})

	t.Run("non-numeric text reads as zero", func(t *testing.T) {
		_, ok := Text("abc").Int()
		assert.False(t, ok)
		assert.Equal(t, int64(0), Text("abc").IntOrZero())
	})
}

func TestLooseEqual(t *testing.T) {
	assert.True(t, LooseEqual(Integer(5), Text("5")))
	assert.True(t, LooseEqual(Text("05"), Integer(5)))
	assert.True(t, LooseEqual(Text("A"), Text("A")))
	assert.False(t, LooseEqual(Text("A"), Text("a")))
	assert.False(t, LooseEqual(Integer(1), Text("one")))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, Integer(0), Integer(9).Initial())
	assert.Equal(t, Text(""), Text("x").Initial())
}
