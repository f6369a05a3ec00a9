package ehtable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unwind/rtti"
)

func TestBuilderClauseListOrder(t *testing.T) {
	b := NewBuilder()
	errType := b.Type(rtti.NewClass("runtime_error"))
	anyType := b.CatchAll()
	listID := b.ClauseList(errType, anyType, 0)
	tables := b.Tables()

	require.NotZero(t, listID)
	require.NoError(t, tables.Validate())

	// The list must yield the clauses in declaration order.
	var clauses []int32
	for id := listID; id != 0; {
		a := tables.Action(id)
		clauses = append(clauses, a.ClauseID)
		id = a.Next
	}
	require.Equal(t, []int32{errType, anyType, 0}, clauses)
}

func TestBuilderInternsTypes(t *testing.T) {
	b := NewBuilder()
	ti := rtti.NewClass("exception")
	require.Equal(t, b.Type(ti), b.Type(ti))
	require.Equal(t, b.CatchAll(), b.CatchAll())
	require.Len(t, b.Tables().Types, 2)
}

func TestBuilderFilterIDs(t *testing.T) {
	b := NewBuilder()
	tid := b.Type(rtti.NewClass("exception"))
	empty := b.Filter()
	listed := b.Filter(tid)
	tables := b.Tables()

	require.Equal(t, int32(-1), empty)
	require.Negative(t, listed)
	require.Empty(t, tables.FilterSeq(empty))
	require.Equal(t, []int32{tid}, tables.FilterSeq(listed))
	require.NoError(t, tables.Validate())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	tables := &Tables{
		Actions: []Action{
			{ClauseID: 5, Next: 9}, // catch id and next link both out of range
			{ClauseID: -1, Next: 0},
		},
		Types:   []rtti.TypeInfo{nil},
		Filters: []int32{1, 2}, // names the catch-all, not terminated
	}
	err := tables.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "next link 9 out of range")
	require.Contains(t, err.Error(), "catch clause 5 out of range")
	require.Contains(t, err.Error(), "catch-all")
	require.Contains(t, err.Error(), "not zero-terminated")
}

func TestValidateDetectsCycle(t *testing.T) {
	tables := &Tables{
		Actions: []Action{
			{ClauseID: 0, Next: 2},
			{ClauseID: 0, Next: 1},
		},
	}
	err := tables.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle")
}

func TestYAMLRoundTrip(t *testing.T) {
	b := NewBuilder()
	errType := b.Type(rtti.NewClass("runtime_error"))
	b.CatchAll()
	filter := b.Filter(errType)
	b.ClauseList(errType, filter, 0)
	tables := b.Tables()

	data, err := tables.EncodeYAML()
	require.NoError(t, err)

	registry := map[string]rtti.TypeInfo{
		"runtime_error": tables.Types[0],
	}
	decoded, err := DecodeYAML(data, func(name string) rtti.TypeInfo {
		return registry[name]
	})
	require.NoError(t, err)
	require.Equal(t, tables.Actions, decoded.Actions)
	require.Equal(t, tables.Filters, decoded.Filters)
	require.Equal(t, tables.Types, decoded.Types)
}

func TestDecodeYAMLUnknownType(t *testing.T) {
	data := []byte("types: [mystery]\nactions: []\n")
	_, err := DecodeYAML(data, func(string) rtti.TypeInfo { return nil })
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown type")
}
