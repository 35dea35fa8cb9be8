package core

// EventArg is the 64-bit payload carried from producer to handler.
// Producer and handler agree on its encoding; it may hold a small value
// directly or the address of caller-managed data. The scheduler never
// inspects it, and never frees anything it points to.
type EventArg = uint64

// ArgBlank is passed when a handler needs no argument
const ArgBlank EventArg = 0

// Handler is invoked by the dispatch loop with the posted payload.
//
// The code behind a handler must stay valid until the event is
// dispatched or cancelled. Cancellation matches handlers by code
// identity, so closures created from the same literal are treated as
// the same handler regardless of what they capture.
type Handler func(arg EventArg)
