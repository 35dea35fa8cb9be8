package core

// Stats counts what the scheduler has done since Init or ResetStats
type Stats struct {
	Posted     uint32
	Dispatched uint32
	Cancelled  uint32
	Rejected   uint32

	// MinFree is the lowest free capacity seen, for sizing Config.Capacity
	MinFree EventQueIndex

	// MaxPending is the highest number of queued events seen
	MaxPending EventQueIndex
}

// Stats returns a copy of the counters. Callers racing with interrupt
// producers should hold DisableInterrupts while reading.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// ResetStats zeroes the counters and restarts the watermarks from the
// current queue state
func (s *Scheduler) ResetStats() {
	s.stats = Stats{
		MinFree:    s.free.count,
		MaxPending: s.GetEventCount(),
	}
}

// noteAcquire updates the watermarks after a slot left the free queue
func (s *Scheduler) noteAcquire() {
	if s.free.count < s.stats.MinFree {
		s.stats.MinFree = s.free.count
	}
	if pending := s.capacity - s.free.count; pending > s.stats.MaxPending {
		s.stats.MaxPending = pending
	}
}
