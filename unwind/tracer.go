package unwind

import "github.com/cloudcmds/unwind/exception"

// Tracer receives callbacks for dispatch events. Implementations enable
// debuggers, crash reporters, and unwind profilers without modifying the
// engine. Callbacks run synchronously during dispatch, so they should be
// fast.
//
// Embed NoopTracer to implement only the events of interest.
type Tracer interface {
	// OnRaise is called when an exception starts propagating. The resumed
	// flag distinguishes a continuation after cleanup from a first throw.
	OnRaise(e *exception.Exception, resumed bool)

	// OnMatch is called once a frame and clause have been selected and
	// recorded, immediately before control transfers.
	OnMatch(e *exception.Exception, frameDepth int, clauseID int32)

	// OnUnhandled is called when a dispatch pass enters no frame.
	OnUnhandled(e *exception.Exception)

	// OnTerminate is called immediately before the terminate policy runs.
	OnTerminate(e *exception.Exception)
}

// NoopTracer implements Tracer with no-ops.
type NoopTracer struct{}

func (NoopTracer) OnRaise(*exception.Exception, bool)       {}
func (NoopTracer) OnMatch(*exception.Exception, int, int32) {}
func (NoopTracer) OnUnhandled(*exception.Exception)         {}
func (NoopTracer) OnTerminate(*exception.Exception)         {}

var _ Tracer = NoopTracer{}
