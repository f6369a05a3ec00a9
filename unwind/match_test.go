package unwind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unwind/ehtable"
	"github.com/cloudcmds/unwind/rtti"
)

func TestClauseMatchesCleanup(t *testing.T) {
	c := New(ehtable.NewBuilder().Tables())
	obj := rtti.Pointer(0x1000)

	require.True(t, c.clauseMatches(rtti.NewClass("anything"), &obj, 0))
	require.Equal(t, rtti.Pointer(0x1000), obj)
}

func TestClauseMatchesCatchAll(t *testing.T) {
	b := ehtable.NewBuilder()
	anyID := b.CatchAll()
	c := New(b.Tables())
	obj := rtti.Pointer(0x1000)

	require.True(t, c.clauseMatches(rtti.NewClass("anything"), &obj, anyID))
	require.Equal(t, rtti.Pointer(0x1000), obj)
}

func TestClauseMatchesCatchCommitsAdjustedPointer(t *testing.T) {
	left := rtti.NewClass("left")
	right := rtti.NewClass("right")
	derived := rtti.NewClass("derived",
		rtti.Base{Type: left, Offset: 0, Public: true},
		rtti.Base{Type: right, Offset: 16, Public: true},
	)

	b := ehtable.NewBuilder()
	rightID := b.Type(right)
	c := New(b.Tables())

	obj := rtti.Pointer(0x1000)
	require.True(t, c.clauseMatches(derived, &obj, rightID))
	require.Equal(t, rtti.Pointer(0x1010), obj)

	// A non-matching catch clause must leave the pointer alone.
	obj = rtti.Pointer(0x1000)
	require.False(t, c.clauseMatches(rtti.NewClass("unrelated"), &obj, rightID))
	require.Equal(t, rtti.Pointer(0x1000), obj)
}

func TestClauseMatchesFilter(t *testing.T) {
	allowed := rtti.NewClass("allowed")
	derived := rtti.NewClass("derived", rtti.Base{Type: allowed, Offset: 8, Public: true})
	other := rtti.NewClass("other")

	b := ehtable.NewBuilder()
	allowedID := b.Type(allowed)
	filterID := b.Filter(allowedID)
	emptyID := b.Filter()
	c := New(b.Tables())

	// The listed type and anything deriving from it satisfy the
	// specification, so the filter clause does not match them.
	obj := rtti.Pointer(0x1000)
	require.False(t, c.clauseMatches(allowed, &obj, filterID))
	require.False(t, c.clauseMatches(derived, &obj, filterID))

	// A type the specification does not list violates it. The probe's
	// pointer adjustment must not be committed.
	obj = rtti.Pointer(0x1000)
	require.True(t, c.clauseMatches(other, &obj, filterID))
	require.Equal(t, rtti.Pointer(0x1000), obj)

	// An empty specification is violated by every throw.
	require.True(t, c.clauseMatches(allowed, &obj, emptyID))
	require.True(t, c.clauseMatches(other, &obj, emptyID))
}

func TestFrameMatchesDeclarationOrder(t *testing.T) {
	typeA := rtti.NewClass("a")

	b := ehtable.NewBuilder()
	aID := b.Type(typeA)
	anyID := b.CatchAll()
	listID := b.ClauseList(aID, anyID)
	c := New(b.Tables())

	h := c.Enter(listID)
	f := &c.frames[h.index]

	// Type a matches its dedicated clause, declared first.
	obj := rtti.Pointer(0x1000)
	clauseID, ok := c.frameMatches(typeA, &obj, f)
	require.True(t, ok)
	require.Equal(t, aID, clauseID)

	// Any other type falls through to the catch-all.
	clauseID, ok = c.frameMatches(rtti.NewClass("b"), &obj, f)
	require.True(t, ok)
	require.Equal(t, anyID, clauseID)

	c.Leave(h)
}

func TestFindMatchPrefersInnermostFrame(t *testing.T) {
	typeA := rtti.NewClass("a")

	b := ehtable.NewBuilder()
	aID := b.Type(typeA)
	outerList := b.ClauseList(aID) // declared earlier in the table
	innerList := b.ClauseList(aID)
	c := New(b.Tables())

	outer := c.Enter(outerList)
	inner := c.Enter(innerList)

	obj := rtti.Pointer(0x1000)
	frameIdx, clauseID, ok := c.findMatch(typeA, &obj, c.fp-1)
	require.True(t, ok)
	require.Equal(t, inner.index, frameIdx)
	require.Equal(t, aID, clauseID)

	c.Leave(inner)
	c.Leave(outer)
}

func TestFindMatchNoFrames(t *testing.T) {
	c := New(ehtable.NewBuilder().Tables())
	obj := rtti.Pointer(0x1000)

	_, _, ok := c.findMatch(rtti.NewClass("a"), &obj, c.fp-1)
	require.False(t, ok)
}

func TestIsCaughtIgnoresCleanupMatches(t *testing.T) {
	typeA := rtti.NewClass("a")

	b := ehtable.NewBuilder()
	aID := b.Type(typeA)
	cleanupList := b.ClauseList(0)
	catchList := b.ClauseList(aID)
	c := New(b.Tables())

	catchFrame := c.Enter(catchList)
	cleanupFrame := c.Enter(cleanupList)

	obj := rtti.Pointer(0x1000)
	require.True(t, c.isCaught(typeA, obj, c.fp-1))
	require.False(t, c.isCaught(rtti.NewClass("b"), obj, c.fp-1))

	c.Leave(cleanupFrame)
	c.Leave(catchFrame)

	// With only a cleanup frame registered, nothing real catches a.
	only := c.Enter(cleanupList)
	require.False(t, c.isCaught(typeA, obj, c.fp-1))
	c.Leave(only)
}
