// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package authors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Author
	}{
		{"first last", "Donald E. Knuth", Author{First: "Donald E.", Last: "Knuth"}},
		{"last first", "Knuth, Donald E.", Author{First: "Donald E.", Last: "Knuth"}},
		{"von in first last", "Ludwig van Beethoven", Author{First: "Ludwig", Von: "van", Last: "Beethoven"}},
		{"von in last first", "van Beethoven, Ludwig", Author{First: "Ludwig", Von: "van", Last: "Beethoven"}},
		{"jr", "King, Jr, Martin Luther", Author{First: "Martin Luther", Last: "King", Jr: "Jr"}},
		{"single token", "Knuth", Author{Last: "Knuth"}},
		{"corporate", "{Barnes and Noble}", Author{Last: "{Barnes and Noble}", Corporate: true}},
		{"braced last name", "John {de la} Cruz", Author{First: "John {de la}", Last: "Cruz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := Parse(tt.input)
			require.Len(t, list, 1)
			assert.Equal(t, tt.want, list[0])
		})
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two names", "A. Einstein and I. Newton", []string{"A. Einstein", "I. Newton"}},
		{"upper case and", "A AND B", []string{"A", "B"}},
		{"and inside word", "Alexander Anderson", []string{"Alexander Anderson"}},
		{"braced and", "{Barnes and Noble} and Smith", []string{"{Barnes and Noble}", "Smith"}},
		{"blank", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitNames(tt.input))
		})
	}
}

func TestRendering(t *testing.T) {
	list := Parse("Knuth, Donald E. and Kurt Cobain and A. Einstein")
	assert.Equal(t, "Knuth, Donald E. and Cobain, Kurt and Einstein, A.", list.AsLastFirst())
	assert.Equal(t, "Donald E. Knuth and Kurt Cobain and A. Einstein", list.AsFirstLast())

	list = Parse("Ludwig van Beethoven and others")
	assert.True(t, list.HasOthers())
	assert.Len(t, list.Named(), 1)
	assert.Equal(t, "van Beethoven, Ludwig and others", list.AsLastFirst())
	assert.Equal(t, "Ludwig van Beethoven and others", list.AsFirstLast())
}

func TestInitials(t *testing.T) {
	a := Author{First: "Jean-Paul E.", Last: "Sartre"}
	assert.Equal(t, "JPE", a.Initials())
}

func TestCommaCount(t *testing.T) {
	assert.Equal(t, 0, CommaCount("Donald Knuth"))
	assert.Equal(t, 1, CommaCount("Knuth, Donald"))
	assert.Equal(t, 0, CommaCount("{Knuth, Inc.}"))
}
