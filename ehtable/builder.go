package ehtable

import "github.com/cloudcmds/unwind/rtti"

// Builder assembles a Tables value incrementally, the way the offline
// compiler pass emits them: types are interned, filter sequences are
// appended with their terminators, and clause lists are linked back to
// front through the action table.
type Builder struct {
	actions []Action
	types   []rtti.TypeInfo
	filters []int32
	typeIDs map[rtti.TypeInfo]int32
}

// NewBuilder creates an empty table builder.
func NewBuilder() *Builder {
	return &Builder{typeIDs: map[rtti.TypeInfo]int32{}}
}

// Type interns a catch type and returns its 1-based type table id, suitable
// for use as a catch clause id or a filter sequence entry.
func (b *Builder) Type(ti rtti.TypeInfo) int32 {
	if id, ok := b.typeIDs[ti]; ok {
		return id
	}
	b.types = append(b.types, ti)
	id := int32(len(b.types))
	b.typeIDs[ti] = id
	return id
}

// CatchAll interns the catch-anything entry (a nil type) and returns its
// clause id.
func (b *Builder) CatchAll() int32 {
	return b.Type(nil)
}

// Filter appends a zero-terminated filter sequence listing the given type
// ids and returns its clause id (negative). An empty call produces a
// specification that allows nothing.
func (b *Builder) Filter(typeIDs ...int32) int32 {
	start := len(b.filters)
	b.filters = append(b.filters, typeIDs...)
	b.filters = append(b.filters, 0)
	return int32(-(start + 1))
}

// ClauseList emits a clause list with the given clause ids in declaration
// order and returns the 1-based id of its head node, or 0 for an empty
// list. Nodes are emitted back to front so each can link to its successor.
func (b *Builder) ClauseList(clauseIDs ...int32) uint32 {
	next := uint32(0)
	for i := len(clauseIDs) - 1; i >= 0; i-- {
		b.actions = append(b.actions, Action{ClauseID: clauseIDs[i], Next: next})
		next = uint32(len(b.actions))
	}
	return next
}

// Tables returns a snapshot of the built tables. The builder may continue
// to be used afterwards without affecting the snapshot's action and filter
// tables.
func (b *Builder) Tables() *Tables {
	t := &Tables{
		Actions: make([]Action, len(b.actions)),
		Types:   make([]rtti.TypeInfo, len(b.types)),
		Filters: make([]int32, len(b.filters)),
	}
	copy(t.Actions, b.actions)
	copy(t.Types, b.types)
	copy(t.Filters, b.filters)
	return t
}
