package exception

import (
	"errors"

	"github.com/gofrs/uuid"

	"github.com/cloudcmds/unwind/rtti"
)

// ErrNoCaughtException reports an EndCatch call with nothing on the caught
// list, which is a contract breach by the embedding code.
var ErrNoCaughtException = errors.New("end catch without a caught exception")

const (
	// payloadBase is the first address handed out for exception payloads.
	// It is nonzero so a zero Pointer stays a reliable null.
	payloadBase = 0x1000

	// payloadAlign is the alignment of every payload address.
	payloadAlign = 16
)

// Manager owns exception records for one thread: it allocates them, assigns
// payload addresses, keeps the currently-caught list, and performs the
// begin/end-catch bookkeeping handlers rely on. A Manager is confined to a
// single goroutine, like the dispatch context it serves.
type Manager struct {
	next       rtti.Pointer
	caught     *Exception
	uncaught   int
	unexpected Handler
	terminate  Handler
}

// ManagerOption is a configuration function for a Manager.
type ManagerOption func(*Manager)

// WithUnexpectedHandler sets the handler snapshotted onto records thrown
// while it is installed.
func WithUnexpectedHandler(h Handler) ManagerOption {
	return func(m *Manager) {
		m.unexpected = h
	}
}

// WithTerminateHandler sets the terminate handler snapshotted onto records
// thrown while it is installed.
func WithTerminateHandler(h Handler) ManagerOption {
	return func(m *Manager) {
		m.terminate = h
	}
}

// NewManager creates an exception manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{next: payloadBase}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allocate creates a record for a new throw of the given dynamic type and
// payload size, assigns the payload address, and snapshots the currently
// installed policy handlers. The exception counts as uncaught until a
// handler begins catching it.
func (m *Manager) Allocate(t rtti.TypeInfo, size uintptr, value any) *Exception {
	addr := m.next
	m.next = m.next.Add(roundUp(size, payloadAlign))
	m.uncaught++
	return &Exception{
		ID:         uuid.Must(uuid.NewV4()),
		Class:      ClassNative,
		Type:       t,
		Value:      value,
		Unexpected: m.unexpected,
		Terminate:  m.terminate,
		payload:    addr,
	}
}

// NewDependent creates a secondary record whose payload dereferences to
// primary's. Rethrowing an exception by reference throws the dependent
// record while the primary stays owned by its original catch scope.
func (m *Manager) NewDependent(primary *Exception) *Exception {
	p := primary.PrimaryRecord()
	m.uncaught++
	return &Exception{
		ID:         uuid.Must(uuid.NewV4()),
		Class:      ClassDependent,
		Type:       p.Type,
		Value:      p.Value,
		Unexpected: m.unexpected,
		Terminate:  m.terminate,
		primary:    p,
	}
}

// BeginCatch marks the exception as being handled, pushes it onto the
// caught list on its first catch, and returns the adjusted payload pointer
// for the handler body.
func (m *Manager) BeginCatch(e *Exception) rtti.Pointer {
	e.handlerCount++
	if e.handlerCount == 1 {
		e.nextCaught = m.caught
		m.caught = e
		m.uncaught--
	}
	return e.Adjusted
}

// EndCatch closes the innermost catch scope. When the last handler for the
// head record finishes, the record leaves the caught list and is deleted.
func (m *Manager) EndCatch() {
	head := m.caught
	if head == nil {
		panic(ErrNoCaughtException)
	}
	head.handlerCount--
	if head.handlerCount == 0 {
		m.caught = head.nextCaught
		head.nextCaught = nil
		head.Delete()
	}
}

// Caught returns the most recently caught exception, or nil.
func (m *Manager) Caught() *Exception {
	return m.caught
}

// Uncaught returns the number of in-flight exceptions that no handler has
// begun catching.
func (m *Manager) Uncaught() int {
	return m.uncaught
}

func roundUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}
