// Package rtti provides the run-time type information consulted during
// exception dispatch: a TypeInfo describes a catchable type and answers
// whether a handler declared with that type can catch a thrown object,
// adjusting the object pointer to the matching subobject when it can.
package rtti

// Pointer is an opaque address within the runtime's object space. The
// dispatcher never dereferences one; it only stores, compares, and offsets
// them during upcast adjustment.
type Pointer uintptr

// Add returns the pointer advanced by offset bytes.
func (p Pointer) Add(offset uintptr) Pointer {
	return p + Pointer(offset)
}

// IsNil reports whether the pointer is the null address.
func (p Pointer) IsNil() bool {
	return p == 0
}

// TypeInfo identifies a type that may appear in a catch clause or an
// exception specification. A nil TypeInfo in the type table means
// "catches anything".
type TypeInfo interface {
	// Name returns the display name of the type.
	Name() string

	// CanCatch reports whether a handler declared with this type can catch
	// a thrown object of dynamic type thrown, located at obj. On success
	// the returned pointer is obj adjusted to refer to this type's
	// subobject within the thrown object; callers decide whether to commit
	// the adjustment.
	CanCatch(thrown TypeInfo, obj Pointer) (Pointer, bool)
}

// Base describes one direct base class of a ClassType, along with the byte
// offset of the base subobject within the derived object.
type Base struct {
	Type   *ClassType
	Offset uintptr
	Public bool
}

// ClassType is the reference TypeInfo implementation: a class with zero or
// more direct bases. It supports the multiple-inheritance upcast adjustment
// the dispatcher relies on.
type ClassType struct {
	name  string
	bases []Base
}

// NewClass creates a class type with the given direct bases.
func NewClass(name string, bases ...Base) *ClassType {
	return &ClassType{name: name, bases: bases}
}

func (c *ClassType) Name() string {
	return c.name
}

// Bases returns the direct bases of the class.
func (c *ClassType) Bases() []Base {
	return c.bases
}

// CanCatch reports whether a handler of type c catches a thrown object of
// dynamic type thrown. A match requires thrown to be c itself or to derive
// from c through public bases only; the returned pointer is upcast to the
// c subobject.
func (c *ClassType) CanCatch(thrown TypeInfo, obj Pointer) (Pointer, bool) {
	tc, ok := thrown.(*ClassType)
	if !ok {
		return obj, false
	}
	if tc == c {
		return obj, true
	}
	offset, ok := tc.upcastOffset(c)
	if !ok {
		return obj, false
	}
	return obj.Add(offset), true
}

// upcastOffset returns the byte offset of the target base subobject within
// an object of type c, searching public inheritance paths depth-first in
// declaration order. The first path found wins.
func (c *ClassType) upcastOffset(target *ClassType) (uintptr, bool) {
	for _, b := range c.bases {
		if !b.Public {
			continue
		}
		if b.Type == target {
			return b.Offset, true
		}
		if sub, ok := b.Type.upcastOffset(target); ok {
			return b.Offset + sub, true
		}
	}
	return 0, false
}

// BadException is the sentinel type substituted for a disallowed exception
// during specification rechecking, when the specification permits it.
var BadException = NewClass("bad_exception")

var _ TypeInfo = (*ClassType)(nil)
