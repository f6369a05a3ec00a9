// Package unwind implements cooperative exception propagation: protected
// scopes register handler frames on a per-thread stack, and throwing finds
// the nearest frame whose static clause list matches the thrown type,
// adjusts the object pointer, and transfers control to that frame's resume
// point. No platform unwind metadata is involved; the static clause, type,
// and filter tables plus the registered frame stack drive everything.
package unwind

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/cloudcmds/unwind/ehtable"
	"github.com/cloudcmds/unwind/exception"
	"github.com/cloudcmds/unwind/rtti"
)

// MaxFrameDepth is the maximum number of simultaneously registered handler
// scopes per context.
const MaxFrameDepth = 1024

var (
	// ErrFrameOverflow reports more than MaxFrameDepth nested scopes.
	ErrFrameOverflow = errors.New("handler frame stack overflow")

	// ErrContinuationUsed reports a second use of a one-shot resume point.
	ErrContinuationUsed = errors.New("resume point already consumed")

	// ErrUnbalancedLeave reports a Leave that does not close the innermost
	// registered scope.
	ErrUnbalancedLeave = errors.New("leave does not match the innermost frame")

	// ErrTerminated is the panic value carried out of the default terminate
	// policy, the library analogue of abort.
	ErrTerminated = errors.New("exception handling terminated")
)

// Manager is the engine's view of the exception-object manager. The engine
// never allocates or frees records itself; it reads and writes their
// metadata and delegates lifetime and catch bookkeeping here.
type Manager interface {
	Allocate(t rtti.TypeInfo, size uintptr, value any) *exception.Exception
	BeginCatch(e *exception.Exception) rtti.Pointer
	EndCatch()
}

// Context holds the per-thread dispatch state: the static tables and the
// stack of registered handler frames. A Context must be confined to a
// single goroutine; exceptions never cross contexts, so no locking exists.
type Context struct {
	tables  *ehtable.Tables
	manager Manager
	policy  Policy
	tracer  Tracer
	logger  zerolog.Logger
	fp      int
	seq     uint64
	frames  [MaxFrameDepth]frame
}

// New creates a dispatch context for the given static tables.
func New(tables *ehtable.Tables, opts ...Option) *Context {
	c := &Context{
		tables: tables,
		logger: zerolog.Nop(),
		tracer: NoopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.manager == nil {
		c.manager = exception.NewManager()
	}
	if c.policy == nil {
		c.policy = NewDefaultPolicy(c.logger)
	}
	return c
}

// Manager returns the exception-object manager serving this context.
func (c *Context) Manager() Manager {
	return c.manager
}

// Depth returns the number of currently registered handler scopes.
func (c *Context) Depth() int {
	return c.fp
}

// FrameHandle identifies one registration of a protected scope. The
// sequence number distinguishes reuses of the same stack slot.
type FrameHandle struct {
	index int
	seq   uint64
}

// Enter registers a protected scope with the given clause list and arms its
// resume point. Scopes must be left (or consumed by dispatch) in LIFO
// order.
func (c *Context) Enter(clauseListID uint32) FrameHandle {
	if c.fp >= MaxFrameDepth {
		panic(ErrFrameOverflow)
	}
	c.seq++
	c.frames[c.fp].arm(c.seq, clauseListID)
	h := FrameHandle{index: c.fp, seq: c.seq}
	c.fp++
	return h
}

// Leave deregisters a scope on its normal exit. The scope must be the
// innermost registered one.
func (c *Context) Leave(h FrameHandle) {
	if c.fp != h.index+1 || c.frames[h.index].seq != h.seq {
		panic(ErrUnbalancedLeave)
	}
	c.fp = h.index
}

// leaveIfRegistered pops the scope unless the dispatcher has already
// discarded it, for unwinds that bypass dispatch (foreign Go panics).
func (c *Context) leaveIfRegistered(h FrameHandle) {
	if c.fp == h.index+1 && c.frames[h.index].seq == h.seq {
		c.fp = h.index
	}
}

// Protect runs body inside a registered handler scope. If dispatch selects
// this scope, body is abandoned at its throw point and land runs with the
// landing record; destructor-style work and any Resume or RecheckSpec call
// belong in land. A foreign panic crossing the scope deregisters the frame
// and keeps propagating.
func (c *Context) Protect(clauseListID uint32, body func(), land func(Landing)) {
	h := c.Enter(clauseListID)
	defer func() {
		r := recover()
		if r == nil {
			c.Leave(h)
			return
		}
		if t, ok := r.(*transfer); ok && t.ctx == c && t.seq == h.seq {
			land(t.landing)
			return
		}
		c.leaveIfRegistered(h)
		panic(r)
	}()
	body()
}
