package unwind

import "github.com/cloudcmds/unwind/rtti"

// violatesSpec reports whether the thrown exception matches none of the
// types in the exception specification identified by filterID, which makes
// the throw a specification violation. An empty specification is violated
// by every throw. Pointer adjustments made while probing are discarded.
func (c *Context) violatesSpec(throwType rtti.TypeInfo, obj rtti.Pointer, filterID int32) bool {
	for _, entry := range c.tables.FilterSeq(filterID) {
		catchType := c.tables.CatchType(entry)
		if _, ok := catchType.CanCatch(throwType, obj); ok {
			return false
		}
	}
	return true
}

// clauseMatches reports whether the thrown exception matches a single
// clause. A catch clause that matches commits the upcast-adjusted pointer
// through obj; filter and cleanup clauses never touch it.
func (c *Context) clauseMatches(throwType rtti.TypeInfo, obj *rtti.Pointer, clauseID int32) bool {
	// Cleanup clauses match everything.
	if clauseID == 0 {
		return true
	}

	// Filter clauses match when the throw violates the specification.
	if clauseID < 0 {
		return c.violatesSpec(throwType, *obj, clauseID)
	}

	// Catch clauses: a nil type table entry catches anything.
	catchType := c.tables.CatchType(clauseID)
	if catchType == nil {
		return true
	}
	adjusted, ok := catchType.CanCatch(throwType, *obj)
	if !ok {
		return false
	}
	*obj = adjusted
	return true
}

// frameMatches walks the frame's clause list in declaration order and
// returns the first clause that matches, so an earlier-declared clause
// always wins within a scope.
func (c *Context) frameMatches(throwType rtti.TypeInfo, obj *rtti.Pointer, f *frame) (int32, bool) {
	for listID := f.clauseList; listID != 0; {
		node := c.tables.Action(listID)
		if c.clauseMatches(throwType, obj, node.ClauseID) {
			return node.ClauseID, true
		}
		listID = node.Next
	}
	return 0, false
}

// findMatch walks the registered frames from index top innermost-to-
// outermost and returns the first frame with a matching clause. Each call
// is a fresh scan; nesting depths are small in practice.
func (c *Context) findMatch(throwType rtti.TypeInfo, obj *rtti.Pointer, top int) (int, int32, bool) {
	for i := top; i >= 0; i-- {
		if clauseID, ok := c.frameMatches(throwType, obj, &c.frames[i]); ok {
			return i, clauseID, true
		}
	}
	return 0, 0, false
}

// isCaught reports whether any frame at or below index top holds a real
// (non-cleanup) handler for the exception. Probing adjustments are made on
// a scratch pointer and discarded.
func (c *Context) isCaught(throwType rtti.TypeInfo, obj rtti.Pointer, top int) bool {
	for i := top; i >= 0; i-- {
		scratch := obj
		if clauseID, ok := c.frameMatches(throwType, &scratch, &c.frames[i]); ok && clauseID != 0 {
			return true
		}
	}
	return false
}
