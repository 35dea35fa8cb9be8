package core

import "errors"

var (
	// ErrQueueFull is returned by AddEvent when every slot is in use.
	// The event is rejected and the arena is left untouched.
	ErrQueueFull = errors.New("evsched: event queue full")

	ErrInvalidPriority = errors.New("evsched: invalid priority")
	ErrNilHandler      = errors.New("evsched: nil handler")
	ErrNotInitialized  = errors.New("evsched: scheduler not initialized")
	ErrCapacity        = errors.New("evsched: capacity out of range")
)

// InvariantError describes a broken arena invariant found by Validate
type InvariantError struct {
	Queue  string
	Index  EventQueIndex
	Reason string
}

func (e *InvariantError) Error() string {
	msg := "evsched: invariant violated in " + e.Queue
	if e.Index != SentinelIndex {
		msg += " at slot " + utoa(uint32(e.Index))
	}
	return msg + ": " + e.Reason
}
