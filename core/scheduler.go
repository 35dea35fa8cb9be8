package core

// Scheduler dispatches posted events in priority order, one handler at a
// time, to completion. All storage is fixed at compile time: a zero
// Scheduler becomes usable after Init and never allocates afterwards.
//
// AddEvent, DeleteEvent and DeleteEventAt do no locking of their own.
// Callers that can race with the dispatch loop or with each other, such as
// interrupt handlers, must hold DisableInterrupts around the call, or use
// Post, Cancel and CancelAt which do so.
type Scheduler struct {
	arena    arena
	free     eventQueue
	ready    [NumPriorities]eventQueue
	ring     traceRing
	stats    Stats
	cfg      Config
	capacity EventQueIndex
	inited   bool
}

// Init puts every slot in the free queue and empties the ready queues.
// It must run before any event is posted and before the dispatch loop
// starts; calling it again discards all pending events.
func (s *Scheduler) Init(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	s.cfg = cfg
	s.capacity = EventQueIndex(cfg.Capacity)

	for i := range s.arena.slots {
		s.arena.slots[i] = slot{next: SentinelIndex, prev: SentinelIndex}
	}
	s.free.reset()
	for p := range s.ready {
		s.ready[p].reset()
	}
	for i := EventQueIndex(0); i < s.capacity; i++ {
		s.arena.linkTail(&s.free, i)
	}

	s.ring.clear()
	s.stats = Stats{MinFree: s.capacity}
	s.inited = true
	return nil
}

// AddEvent queues handler to run with arg at the given priority. Events
// of equal priority run in the order they were added.
//
// When every slot is in use the event is rejected: nothing is queued,
// Stats.Rejected is incremented, Config.OnReject is called and
// ErrQueueFull is returned.
func (s *Scheduler) AddEvent(priority Priority, handler Handler, arg EventArg) error {
	if !s.inited {
		return ErrNotInitialized
	}
	if !priority.Valid() {
		return ErrInvalidPriority
	}
	if handler == nil {
		return ErrNilHandler
	}

	if s.free.count == 0 {
		s.stats.Rejected++
		if s.cfg.Trace {
			s.ring.record(TraceReject, priority, SentinelIndex, handlerID(handler))
		}
		if s.cfg.OnReject != nil {
			s.cfg.OnReject(priority)
		}
		return ErrQueueFull
	}

	index := s.arena.dequeueFromHead(&s.free)
	s.arena.enqueueToTail(&s.ready[priority], index, handler, arg)

	s.stats.Posted++
	s.noteAcquire()
	s.trace(TracePost, priority, index, s.arena.slots[index].id)
	return nil
}

// DeleteEvent removes the earliest queued event whose handler matches,
// searching from HIGHEST to LOWEST. The handler is not run. Returns false
// if nothing matched.
func (s *Scheduler) DeleteEvent(handler Handler) bool {
	if !s.inited || handler == nil {
		return false
	}

	id := handlerID(handler)
	for p := Highest; p < NumPriorities; p++ {
		if s.deleteFrom(p, id) {
			return true
		}
	}
	return false
}

// DeleteEventAt is DeleteEvent restricted to one priority level
func (s *Scheduler) DeleteEventAt(priority Priority, handler Handler) bool {
	if !s.inited || handler == nil || !priority.Valid() {
		return false
	}
	return s.deleteFrom(priority, handlerID(handler))
}

// deleteFrom releases the first slot of ready queue p carrying id
func (s *Scheduler) deleteFrom(p Priority, id uintptr) bool {
	q := &s.ready[p]
	index := s.arena.find(q, id)
	if index == SentinelIndex {
		return false
	}

	s.arena.dequeueFromAbsoluteIndex(q, index)
	s.arena.enqueueToHeadOfFreeQueue(&s.free, index)

	s.stats.Cancelled++
	s.trace(TraceCancel, p, index, id)
	return true
}

// GetEventFreeCapacity returns how many more events can be queued.
// Producers use it to drop low-value events before the arena runs out.
func (s *Scheduler) GetEventFreeCapacity() EventQueIndex {
	return s.free.count
}

// GetEventCount returns the number of events waiting to be dispatched.
// Zero means the device may sleep until the next interrupt.
func (s *Scheduler) GetEventCount() EventQueIndex {
	var n EventQueIndex
	for p := range s.ready {
		n += s.ready[p].count
	}
	return n
}

// PendingAt returns the number of events waiting at one priority level
func (s *Scheduler) PendingAt(priority Priority) EventQueIndex {
	if !priority.Valid() {
		return 0
	}
	return s.ready[priority].count
}

// Capacity returns the configured number of slots
func (s *Scheduler) Capacity() EventQueIndex {
	return s.capacity
}

// Post is AddEvent inside a critical section, for interrupt handlers and
// any other context that can race with the dispatch loop
func (s *Scheduler) Post(priority Priority, handler Handler, arg EventArg) error {
	state := DisableInterrupts()
	defer RestoreInterrupts(state)
	return s.AddEvent(priority, handler, arg)
}

// Cancel is DeleteEvent inside a critical section
func (s *Scheduler) Cancel(handler Handler) bool {
	state := DisableInterrupts()
	defer RestoreInterrupts(state)
	return s.DeleteEvent(handler)
}

// CancelAt is DeleteEventAt inside a critical section
func (s *Scheduler) CancelAt(priority Priority, handler Handler) bool {
	state := DisableInterrupts()
	defer RestoreInterrupts(state)
	return s.DeleteEventAt(priority, handler)
}

// take releases the head of the highest non-empty ready queue and returns
// what it held. Interrupts must be disabled.
func (s *Scheduler) take() (Handler, EventArg, bool) {
	for p := Highest; p < NumPriorities; p++ {
		q := &s.ready[p]
		if q.count == 0 {
			continue
		}

		index := s.arena.dequeueFromHead(q)
		sl := &s.arena.slots[index]
		handler, arg, id := sl.handler, sl.arg, sl.id
		s.arena.enqueueToHeadOfFreeQueue(&s.free, index)

		s.stats.Dispatched++
		s.trace(TraceDispatch, p, index, id)
		return handler, arg, true
	}
	return nil, ArgBlank, false
}

// DispatchOne runs the highest priority pending event, if any. The slot
// is back in the free queue before the handler starts, so the handler may
// post again without competing for its own slot.
func (s *Scheduler) DispatchOne() bool {
	state := DisableInterrupts()
	handler, arg, ok := s.take()
	RestoreInterrupts(state)

	if !ok {
		return false
	}
	handler(arg)
	return true
}

// DispatchPending runs events until none are pending and returns how many
// ran. Events posted by the handlers themselves are included.
func (s *Scheduler) DispatchPending() int {
	n := 0
	for s.DispatchOne() {
		n++
	}
	return n
}

// StartDispatchEventLoop dispatches events forever. Initial events must be
// posted before it is called; afterwards only interrupt handlers and the
// running handlers can post. When nothing is pending the loop calls the
// idle primitive with interrupts disabled.
func (s *Scheduler) StartDispatchEventLoop() {
	for {
		if s.DispatchOne() {
			continue
		}

		state := DisableInterrupts()
		if s.GetEventCount() == 0 {
			s.idle()
		}
		RestoreInterrupts(state)
	}
}

func (s *Scheduler) idle() {
	if s.cfg.Idle != nil {
		s.cfg.Idle()
		return
	}
	WaitForInterrupt()
}
