package unwind

import (
	"github.com/rs/zerolog"

	"github.com/cloudcmds/unwind/exception"
)

// Policy supplies the process-level unexpected and terminate behavior. The
// engine decides when to invoke it; what it ultimately does (log, abort,
// unit-test bookkeeping) belongs to the embedder.
type Policy interface {
	// Unexpected runs the substitute handler recorded on an exception whose
	// specification was violated. The handler may throw a replacement
	// exception with Throw; if Unexpected returns normally the engine
	// proceeds to termination.
	Unexpected(h exception.Handler)

	// Terminate ends execution and must not return. The engine panics with
	// ErrTerminated if an implementation returns anyway.
	Terminate(h exception.Handler)
}

// DefaultPolicy runs the recorded handlers and terminates by logging and
// panicking with ErrTerminated, the closest a library gets to abort.
type DefaultPolicy struct {
	logger zerolog.Logger
}

// NewDefaultPolicy creates the default policy with the given logger.
func NewDefaultPolicy(logger zerolog.Logger) *DefaultPolicy {
	return &DefaultPolicy{logger: logger}
}

func (p *DefaultPolicy) Unexpected(h exception.Handler) {
	if h != nil {
		h()
	}
}

func (p *DefaultPolicy) Terminate(h exception.Handler) {
	if h != nil {
		h()
	}
	p.logger.Error().Msg("terminating: exception handling cannot continue")
	panic(ErrTerminated)
}

var _ Policy = (*DefaultPolicy)(nil)
