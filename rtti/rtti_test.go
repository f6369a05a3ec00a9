package rtti

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanCatchSameType(t *testing.T) {
	errType := NewClass("runtime_error")
	obj := Pointer(0x1000)

	adjusted, ok := errType.CanCatch(errType, obj)
	require.True(t, ok)
	require.Equal(t, obj, adjusted)
}

func TestCanCatchPublicBase(t *testing.T) {
	base := NewClass("exception")
	derived := NewClass("runtime_error", Base{Type: base, Offset: 0, Public: true})
	obj := Pointer(0x1000)

	adjusted, ok := base.CanCatch(derived, obj)
	require.True(t, ok)
	require.Equal(t, obj, adjusted)
}

func TestCanCatchMultipleInheritanceOffset(t *testing.T) {
	// derived inherits first from left (offset 0) and then from right
	// (offset 16). Catching by right must adjust the pointer by 16.
	left := NewClass("left")
	right := NewClass("right")
	derived := NewClass("derived",
		Base{Type: left, Offset: 0, Public: true},
		Base{Type: right, Offset: 16, Public: true},
	)
	obj := Pointer(0x1000)

	adjusted, ok := right.CanCatch(derived, obj)
	require.True(t, ok)
	require.Equal(t, obj.Add(16), adjusted)

	adjusted, ok = left.CanCatch(derived, obj)
	require.True(t, ok)
	require.Equal(t, obj, adjusted)
}

func TestCanCatchDeepHierarchyAccumulatesOffsets(t *testing.T) {
	grandBase := NewClass("grand")
	mid := NewClass("mid", Base{Type: grandBase, Offset: 8, Public: true})
	derived := NewClass("derived", Base{Type: mid, Offset: 24, Public: true})
	obj := Pointer(0x2000)

	adjusted, ok := grandBase.CanCatch(derived, obj)
	require.True(t, ok)
	require.Equal(t, obj.Add(32), adjusted)
}

func TestCannotCatchPrivateBase(t *testing.T) {
	base := NewClass("exception")
	derived := NewClass("impl_detail", Base{Type: base, Offset: 0, Public: false})

	_, ok := base.CanCatch(derived, Pointer(0x1000))
	require.False(t, ok)
}

func TestCannotCatchUnrelatedType(t *testing.T) {
	a := NewClass("a")
	b := NewClass("b")

	_, ok := a.CanCatch(b, Pointer(0x1000))
	require.False(t, ok)
}
