package core

// TraceKind identifies what happened to a slot
type TraceKind uint8

const (
	TracePost     TraceKind = 1 // AddEvent linked a slot into a ready queue
	TraceDispatch TraceKind = 2 // dispatch loop released a slot and ran its handler
	TraceCancel   TraceKind = 3 // DeleteEvent released a slot without running it
	TraceReject   TraceKind = 4 // AddEvent found the arena exhausted
)

// TraceRingSize is the number of entries kept for post-mortem
const TraceRingSize = 32

// TraceEntry is one record of the trace ring
type TraceEntry struct {
	Handler  uintptr
	Clock    uint32
	Kind     TraceKind
	Priority Priority
	Slot     EventQueIndex // SentinelIndex for TraceReject
}

// traceRing keeps the last TraceRingSize entries, overwriting the oldest
type traceRing struct {
	entries [TraceRingSize]TraceEntry
	head    uint8
	count   uint8
}

// String returns the name printed by DumpTraceRing
func (k TraceKind) String() string {
	switch k {
	case TracePost:
		return "POST"
	case TraceDispatch:
		return "DISPATCH"
	case TraceCancel:
		return "CANCEL"
	case TraceReject:
		return "REJECT!"
	default:
		return "UNKNOWN"
	}
}

func (r *traceRing) record(kind TraceKind, priority Priority, index EventQueIndex, id uintptr) {
	r.entries[r.head] = TraceEntry{
		Handler:  id,
		Clock:    GetTime(),
		Kind:     kind,
		Priority: priority,
		Slot:     index,
	}
	r.head = (r.head + 1) % TraceRingSize
	if r.count < TraceRingSize {
		r.count++
	}
}

// snapshot copies entries oldest first into dst and returns how many
func (r *traceRing) snapshot(dst []TraceEntry) int {
	start := (int(r.head) + TraceRingSize - int(r.count)) % TraceRingSize
	n := 0
	for i := 0; i < int(r.count) && n < len(dst); i++ {
		dst[n] = r.entries[(start+i)%TraceRingSize]
		n++
	}
	return n
}

func (r *traceRing) clear() {
	*r = traceRing{}
}

// trace records an entry if tracing is enabled
func (s *Scheduler) trace(kind TraceKind, priority Priority, index EventQueIndex, id uintptr) {
	if s.cfg.Trace {
		s.ring.record(kind, priority, index, id)
	}
}

// TraceSnapshot copies the trace ring, oldest entry first, into dst.
// It does not allocate; entries beyond len(dst) are skipped.
func (s *Scheduler) TraceSnapshot(dst []TraceEntry) int {
	return s.ring.snapshot(dst)
}

// ClearTraceRing discards all trace entries
func (s *Scheduler) ClearTraceRing() {
	s.ring.clear()
}

// DumpTraceRing writes the trace ring through DebugPrintln, so nothing is
// written unless debug output is enabled. Call it on shutdown or from a
// LOWEST priority handler, not from an interrupt.
func (s *Scheduler) DumpTraceRing() {
	if !debugEnabled || debugPrintln == nil {
		return
	}

	var entries [TraceRingSize]TraceEntry
	n := s.ring.snapshot(entries[:])

	DebugPrintln("[TRACE] === Trace Ring Dump ===")
	DebugPrintln("[TRACE] free=" + utoa(uint32(s.free.count)) +
		" pending=" + utoa(uint32(s.GetEventCount())))
	for i := 0; i < n; i++ {
		e := &entries[i]
		line := "[TRACE] " + e.Kind.String() +
			" prio=" + e.Priority.String() +
			" clock=" + utoa(e.Clock) +
			" handler=0x" + xtoa(uint64(e.Handler))
		if e.Slot != SentinelIndex {
			line += " slot=" + utoa(uint32(e.Slot))
		}
		DebugPrintln(line)
	}
	DebugPrintln("[TRACE] === End Dump ===")
}
