// Package ehtable defines the static, read-only tables that drive exception
// dispatch: a flat action table holding singly linked clause lists, a type
// table of catchable types, and a filter table of zero-terminated exception
// specifications. The tables are produced offline by a compiler pass; this
// package defines their format, a Builder with the same shape such a pass
// would use, and a YAML interchange form for tooling and tests.
//
// All indices into the tables are 1-based so that 0 stays reserved as a
// sentinel meaning "no clause" or "end of list".
package ehtable

import "github.com/cloudcmds/unwind/rtti"

// Action is one node of a clause list. ClauseID selects the clause kind:
//
//	ClauseID == 0: cleanup clause (run destructors, no handler)
//	ClauseID  > 0: catch clause; 1-based index into the type table
//	ClauseID  < 0: filter clause; negative 1-based index into the filter table
//
// Next is the 1-based index of the following node in the action table, or 0
// at the end of the list.
type Action struct {
	ClauseID int32
	Next     uint32
}

// IsCleanup reports whether the action is a cleanup clause.
func (a Action) IsCleanup() bool { return a.ClauseID == 0 }

// IsCatch reports whether the action is a catch clause.
func (a Action) IsCatch() bool { return a.ClauseID > 0 }

// IsFilter reports whether the action is a filter clause.
func (a Action) IsFilter() bool { return a.ClauseID < 0 }

// Tables bundles the three static tables consumed by the dispatcher. Once
// built they are read-only and safe for concurrent use without locking.
type Tables struct {
	// Actions holds every clause-list node in the program.
	Actions []Action

	// Types holds one entry per declared catch type. A nil entry means the
	// clause catches anything.
	Types []rtti.TypeInfo

	// Filters holds concatenated zero-terminated sequences of 1-based type
	// table indices, one sequence per exception specification. A sequence
	// whose first element is 0 catches nothing, so every exception violates
	// that specification.
	Filters []int32
}

// Action returns the clause-list node with the given 1-based id. The id must
// be nonzero and in range; Validate checks this for untrusted tables.
func (t *Tables) Action(listID uint32) Action {
	return t.Actions[listID-1]
}

// CatchType returns the type table entry for a catch clause id (> 0). A nil
// result means the clause catches anything.
func (t *Tables) CatchType(clauseID int32) rtti.TypeInfo {
	return t.Types[clauseID-1]
}

// FilterSeq returns the filter sequence for a negative filter id, without
// its zero terminator.
func (t *Tables) FilterSeq(filterID int32) []int32 {
	start := int(-filterID - 1)
	end := start
	for end < len(t.Filters) && t.Filters[end] != 0 {
		end++
	}
	return t.Filters[start:end]
}
