package unwind

import "github.com/cloudcmds/unwind/exception"

// Landing is the pair of values delivered to a frame's resume point when a
// match commits: the exception being propagated and the clause that matched
// it. A negative clause id means the scope must re-check the exception
// against its specification via RecheckSpec after running destructors.
type Landing struct {
	Exception *exception.Exception
	ClauseID  int32
}

// framePhase tags which payload a frame's storage currently holds. A frame
// is armed while its resume point is live and landed once the dispatcher
// has consumed the resume point and written the landing record in its
// place. The resume point must be copied out before the transition.
type framePhase uint8

const (
	frameArmed framePhase = iota
	frameLanded
)

// frame is one registered handler scope. Frames live in the context's
// fixed array and are addressed by index; the enclosing frame is the one
// below in the array, so no successor links exist to dangle.
type frame struct {
	phase      framePhase
	seq        uint64
	clauseList uint32
	landing    Landing
}

func (f *frame) arm(seq uint64, clauseList uint32) {
	f.phase = frameArmed
	f.seq = seq
	f.clauseList = clauseList
	f.landing = Landing{}
}

// takeContinuation consumes the frame's resume point. Taking it twice, or
// after the landing record has been written, is a contract breach.
func (f *frame) takeContinuation(c *Context) continuation {
	if f.phase != frameArmed {
		panic(ErrContinuationUsed)
	}
	return continuation{ctx: c, seq: f.seq}
}

func (f *frame) land(l Landing) {
	f.phase = frameLanded
	f.landing = l
}

// continuation is a one-shot resume point captured when a protected scope
// was entered. Invoking it transfers control into that scope and never
// returns; all Go stack state between the throw point and the scope is
// abandoned by the transfer.
type continuation struct {
	ctx *Context
	seq uint64
}

func (k continuation) invoke(l Landing) {
	panic(&transfer{ctx: k.ctx, seq: k.seq, landing: l})
}

// transfer is the tagged panic payload that implements the non-local jump.
// Only the scope whose continuation identity matches recovers it; every
// other scope deregisters itself and lets it continue.
type transfer struct {
	ctx     *Context
	seq     uint64
	landing Landing
}
