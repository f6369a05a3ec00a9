package unwind

import "github.com/cloudcmds/unwind/exception"

// dispatch performs one unwinding pass for the exception. It returns
// normally only when no frame is entered: either nothing matched, or the
// uncaught-exception policy abandoned a pure-cleanup match. On a committed
// match it transfers control and does not return.
func (c *Context) dispatch(e *exception.Exception, checkForCatch bool) {
	obj := e.Object()

	frameIdx, clauseID, ok := c.findMatch(e.Type, &obj, c.fp-1)
	if !ok {
		c.logger.Debug().
			Stringer("exception", e.ID).
			Str("type", typeName(e.Type)).
			Msg("no matching frame")
		c.tracer.OnUnhandled(e)
		return
	}

	// Refuse to enter a pure-cleanup frame when no real handler exists
	// further out. The eventual abort then reports the original throw
	// context rather than an unwound one. Only the initial throw pays for
	// this extra scan; resumptions skip it so that unwinding stays linear
	// in the number of intervening cleanup frames.
	if checkForCatch && clauseID == 0 && !c.isCaught(e.Type, obj, frameIdx-1) {
		c.tracer.OnUnhandled(e)
		return
	}

	f := &c.frames[frameIdx]

	// Record the match on the exception: the adjusted pointer is what
	// BeginCatch hands to the handler body, and the clause id is what a
	// later specification recheck resolves its filter from.
	e.Adjusted = obj
	e.HandlerSwitch = clauseID

	// The frame's storage holds either the resume point or the landing
	// record, so the resume point must be copied out first.
	k := f.takeContinuation(c)
	landing := Landing{Exception: e, ClauseID: clauseID}
	f.land(landing)

	// The matched frame is consumed along with every frame above it.
	c.fp = frameIdx

	c.logger.Debug().
		Stringer("exception", e.ID).
		Int("frame", frameIdx).
		Int32("clause", clauseID).
		Msg("transferring to handler frame")
	c.tracer.OnMatch(e, frameIdx, clauseID)

	k.invoke(landing)
}

// Raise begins propagating a newly thrown exception. When a frame matches,
// control transfers to it and Raise does not return. When nothing matches
// (or only cleanup frames would run for an exception no handler will ever
// catch), Raise returns ReasonEndOfStack and no resume point is invoked.
func (c *Context) Raise(e *exception.Exception) exception.Reason {
	c.logger.Debug().
		Stringer("exception", e.ID).
		Str("type", typeName(e.Type)).
		Msg("raising exception")
	c.tracer.OnRaise(e, false)
	c.dispatch(e, true)
	return exception.ReasonEndOfStack
}

// RaiseOrRethrow propagates a rethrown exception. Matching is identical to
// a first throw.
func (c *Context) RaiseOrRethrow(e *exception.Exception) exception.Reason {
	return c.Raise(e)
}

// Resume continues unwinding after a cleanup scope has finished running its
// destructors without entering a handler. It never returns: Raise already
// proved a real handler exists further out, so finding none here is a
// contract breach that forces a degenerate caught state and termination.
func (c *Context) Resume(e *exception.Exception) {
	c.tracer.OnRaise(e, true)
	c.dispatch(e, false)

	c.logger.Error().
		Stringer("exception", e.ID).
		Msg("resume found no handler after cleanup")
	c.manager.BeginCatch(e)
	c.terminate(e)
}

// Release invokes the exception's registered cleanup callback, if any, and
// is a no-op otherwise. A handler scope calls this when it finishes with an
// exception it did not rethrow.
func Release(e *exception.Exception) {
	e.Delete()
}

// terminate hands the exception to the terminate policy and guarantees no
// return even from a misbehaving policy.
func (c *Context) terminate(e *exception.Exception) {
	c.tracer.OnTerminate(e)
	var h exception.Handler
	if e != nil {
		h = e.Terminate
	}
	c.policy.Terminate(h)
	panic(ErrTerminated)
}
