package unwind

import (
	"github.com/cloudcmds/unwind/exception"
	"github.com/cloudcmds/unwind/rtti"
)

// sentinelPayloadSize is the allocation size for a synthesized
// bad_exception record.
const sentinelPayloadSize = 16

// thrown wraps a replacement exception raised from inside a substitute
// handler, so stray panics that merely carry an exception value are not
// mistaken for deliberate throws.
type thrown struct {
	e *exception.Exception
}

// Throw raises a replacement exception from inside a substitute handler
// running under RecheckSpec. Ordinary throws go through Raise; this exists
// only so the substitute handler's exception can be intercepted and
// re-checked against the violated specification.
func Throw(e *exception.Exception) {
	panic(&thrown{e: e})
}

// specState names the phases of specification rechecking.
type specState uint8

const (
	specRunningSubstitute specState = iota
	specCheckingAllowed
	specCheckingSentinel
	specTerminating
)

// RecheckSpec handles an exception that violated a function's exception
// specification, after the violating scope has run its destructors. It
// runs the unexpected handler recorded at throw time; if that handler
// throws a replacement exception X:
//
//   - X propagates unchanged when the violated specification allows its
//     type;
//   - otherwise a bad_exception sentinel is thrown in X's place when the
//     specification allows that;
//   - otherwise the terminate policy runs.
//
// A handler that returns normally also reaches the terminate policy.
// RecheckSpec never returns.
//
// The exception enters a caught state for the duration so the handler may
// rethrow it; the caught state is left on every exit path, including when
// a replacement exception propagates out of this call.
func (c *Context) RecheckSpec(e *exception.Exception) {
	filterID := e.HandlerSwitch
	unexpectedHandler := e.Unexpected

	c.manager.BeginCatch(e)
	defer c.manager.EndCatch()

	var replacement *exception.Exception
	state := specRunningSubstitute
	for {
		switch state {
		case specRunningSubstitute:
			replacement = c.runSubstitute(unexpectedHandler)
			if replacement == nil {
				state = specTerminating
			} else {
				state = specCheckingAllowed
			}
		case specCheckingAllowed:
			if !c.violatesSpec(replacement.Type, replacement.Object(), filterID) {
				// The replacement is a type the original specification
				// allows, so it becomes the in-flight exception.
				c.RaiseOrRethrow(replacement)
				state = specTerminating
			} else {
				state = specCheckingSentinel
			}
		case specCheckingSentinel:
			sentinel := c.manager.Allocate(rtti.BadException, sentinelPayloadSize, nil)
			if !c.violatesSpec(sentinel.Type, sentinel.Object(), filterID) {
				c.Raise(sentinel)
			}
			state = specTerminating
		case specTerminating:
			c.terminate(e)
		}
	}
}

// runSubstitute runs the unexpected policy and captures a replacement
// exception raised with Throw. Any other panic propagates as foreign.
func (c *Context) runSubstitute(h exception.Handler) (replacement *exception.Exception) {
	defer func() {
		if r := recover(); r != nil {
			t, ok := r.(*thrown)
			if !ok {
				panic(r)
			}
			replacement = t.e
		}
	}()
	c.policy.Unexpected(h)
	return nil
}
