package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual_Primitives(t *testing.T) {
	assert.True(t, Equal(String("a"), String("a")))
	assert.False(t, Equal(String("a"), String("b")))

	assert.True(t, Equal(Int(5), Int(5)))
	assert.False(t, Equal(Int(5), Int(6)))

	assert.True(t, Equal(Bool(true), Bool(true)))
	assert.False(t, Equal(Bool(true), Bool(false)))

	assert.True(t, Equal(Null{}, Null{}))
}

func TestEqual_DifferentKindsNeverEqual(t *testing.T) {
	assert.False(t, Equal(String("5"), Int(5)))
	assert.False(t, Equal(Int(0), Bool(false)))
	assert.False(t, Equal(Null{}, String("")))
	assert.False(t, Equal(List{}, Map{}))
	assert.False(t, Equal(Map{}, Null{}))
}

func TestEqual_MapKeyOrderIrrelevant(t *testing.T) {
	a := Map{"a": Int(1), "b": Map{"c": Int(2)}}
	b := Map{"b": Map{"c": Int(2)}, "a": Int(1)}

	assert.True(t, Equal(a, b))
	assert.True(t, Equal(b, a), "equality must be symmetric")
}

func TestEqual_ListOrderSignificant(t *testing.T) {
	a := Map{"a": List{Int(1), Int(2)}}
	b := Map{"a": List{Int(2), Int(1)}}

	assert.False(t, Equal(a, b))
	assert.False(t, Equal(b, a))
}

func TestEqual_NestedStructures(t *testing.T) {
	a := Map{
		"budget": Int(-500),
		"tags":   List{String("urgent"), String("field")},
		"meta":   Map{"week": Int(1), "slot": String("morning")},
	}
	b := Map{
		"meta":   Map{"slot": String("morning"), "week": Int(1)},
		"tags":   List{String("urgent"), String("field")},
		"budget": Int(-500),
	}

	assert.True(t, Equal(a, b))
}

func TestEqual_MissingKeyFails(t *testing.T) {
	a := Map{"a": Int(1), "b": Int(2)}
	b := Map{"a": Int(1)}

	assert.False(t, Equal(a, b))
	assert.False(t, Equal(b, a))
}

func TestEqual_ListLengthMismatch(t *testing.T) {
	assert.False(t, Equal(List{Int(1)}, List{Int(1), Int(2)}))
}
