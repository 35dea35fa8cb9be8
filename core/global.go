package core

// The firmware runs exactly one scheduler. InitializeStatic sets it up and
// the package-level functions below operate on it.
var defaultScheduler Scheduler

// InitializeStatic initializes the process-wide scheduler. Call it once from
// startup code, before any event is posted and before
// StartDispatchEventLoop.
func InitializeStatic(cfg Config) error {
	return defaultScheduler.Init(cfg)
}

// Default returns the process-wide scheduler
func Default() *Scheduler {
	return &defaultScheduler
}

// AddEvent queues an event on the process-wide scheduler. See Scheduler.AddEvent.
func AddEvent(priority Priority, handler Handler, arg EventArg) error {
	return defaultScheduler.AddEvent(priority, handler, arg)
}

// DeleteEvent cancels an event on the process-wide scheduler. Call it with
// interrupts disabled for a synchronous cancel.
func DeleteEvent(handler Handler) bool {
	return defaultScheduler.DeleteEvent(handler)
}

// DeleteEventAt cancels an event of one priority on the process-wide
// scheduler. Faster than DeleteEvent when the priority is known.
func DeleteEventAt(priority Priority, handler Handler) bool {
	return defaultScheduler.DeleteEventAt(priority, handler)
}

// Post queues an event on the process-wide scheduler from any context
func Post(priority Priority, handler Handler, arg EventArg) error {
	return defaultScheduler.Post(priority, handler, arg)
}

// Cancel cancels an event on the process-wide scheduler from any context
func Cancel(handler Handler) bool {
	return defaultScheduler.Cancel(handler)
}

// GetEventFreeCapacity returns the free slot count of the process-wide scheduler
func GetEventFreeCapacity() EventQueIndex {
	return defaultScheduler.GetEventFreeCapacity()
}

// GetEventCount returns the pending event count of the process-wide scheduler
func GetEventCount() EventQueIndex {
	return defaultScheduler.GetEventCount()
}

// StartDispatchEventLoop runs the process-wide scheduler. It does not return.
func StartDispatchEventLoop() {
	defaultScheduler.StartDispatchEventLoop()
}
