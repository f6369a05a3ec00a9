// Package exception defines the thrown-exception records consumed by the
// dispatch engine, together with a reference Manager that owns allocation,
// the currently-caught list, and begin/end-catch bookkeeping. The engine
// itself only reads and writes record metadata; lifetime belongs here.
package exception

import (
	"github.com/gofrs/uuid"

	"github.com/cloudcmds/unwind/rtti"
)

// Reason is the status code passed between the engine and the embedding
// code, and to cleanup callbacks when a record is deleted.
type Reason int32

const (
	ReasonNone Reason = iota
	ReasonForeignExceptionCaught
	ReasonFatalPhase2Error
	ReasonFatalPhase1Error
	ReasonNormalStop
	ReasonEndOfStack
	ReasonHandlerFound
	ReasonInstallContext
	ReasonContinueUnwind
)

// String returns the name of the reason code.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "no reason"
	case ReasonForeignExceptionCaught:
		return "foreign exception caught"
	case ReasonFatalPhase2Error:
		return "fatal phase 2 error"
	case ReasonFatalPhase1Error:
		return "fatal phase 1 error"
	case ReasonNormalStop:
		return "normal stop"
	case ReasonEndOfStack:
		return "end of stack"
	case ReasonHandlerFound:
		return "handler found"
	case ReasonInstallContext:
		return "install context"
	case ReasonContinueUnwind:
		return "continue unwind"
	default:
		return "unknown"
	}
}

// Class identifies the runtime that produced an exception record. Records
// from other runtimes are "foreign": the engine never dispatches them, but
// their cleanup callbacks still receive the foreign-caught reason.
type Class uint64

var (
	// ClassNative marks records allocated by a Manager in this runtime.
	ClassNative = classOf("UNWDGO\x00\x00")

	// ClassDependent marks secondary records that reference a primary
	// exception's payload (rethrow by reference).
	ClassDependent = classOf("UNWDGO\x00\x01")
)

func classOf(s string) Class {
	var c Class
	for i := 0; i < 8 && i < len(s); i++ {
		c = c<<8 | Class(s[i])
	}
	return c
}

// IsNative reports whether the class belongs to this runtime, dependent
// records included.
func (c Class) IsNative() bool {
	return c == ClassNative || c == ClassDependent
}

// Handler is an unexpected or terminate handler snapshotted onto an
// exception record at throw time.
type Handler func()

// Exception is one thrown-exception record. The engine writes Adjusted and
// HandlerSwitch when a match is committed; everything else is fixed at
// allocation time apart from the Manager's catch bookkeeping.
type Exception struct {
	// ID correlates log lines and traces for one in-flight exception.
	ID uuid.UUID

	// Class tags the producing runtime.
	Class Class

	// Type is the dynamic type of the thrown object.
	Type rtti.TypeInfo

	// Value optionally carries the thrown Go value for the embedder's
	// convenience. The engine never inspects it.
	Value any

	// Adjusted is the payload pointer after upcast adjustment, valid once a
	// catch clause has matched. Handlers retrieve it through BeginCatch.
	Adjusted rtti.Pointer

	// HandlerSwitch records which clause matched, so that a later
	// specification recheck can find the violated filter.
	HandlerSwitch int32

	// Unexpected and Terminate are the policy handlers installed when the
	// exception was thrown.
	Unexpected Handler
	Terminate  Handler

	// Cleanup, when set, is invoked once the record is deleted.
	Cleanup func(Reason, *Exception)

	payload rtti.Pointer
	primary *Exception

	handlerCount int
	nextCaught   *Exception
}

// Object returns the address of the true thrown payload. For a dependent
// record this dereferences to the primary exception's payload.
func (e *Exception) Object() rtti.Pointer {
	if e.Class == ClassDependent {
		return e.primary.Object()
	}
	return e.payload
}

// PrimaryRecord returns the record owning the payload: the exception itself
// unless it is a dependent record.
func (e *Exception) PrimaryRecord() *Exception {
	if e.Class == ClassDependent {
		return e.primary
	}
	return e
}

// Delete invokes the record's cleanup callback with the foreign-caught
// reason if one is registered, and is a no-op otherwise.
func (e *Exception) Delete() {
	if e.Cleanup != nil {
		e.Cleanup(ReasonForeignExceptionCaught, e)
	}
}
