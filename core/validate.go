package core

// queueName labels a queue in InvariantError
func queueName(q int) string {
	if q < 0 {
		return "free"
	}
	return Priority(q).String()
}

// Validate walks every queue and checks the arena invariants: the queue
// counts add up to the capacity, every slot is linked into exactly one
// queue, links agree in both directions and empty queues hold the
// sentinel. It is meant for tests and debug commands, and must not race
// with producers.
func (s *Scheduler) Validate() error {
	if !s.inited {
		return ErrNotInitialized
	}

	total := int(s.free.count)
	for p := range s.ready {
		total += int(s.ready[p].count)
	}
	if total != int(s.capacity) {
		return &InvariantError{
			Queue:  "arena",
			Index:  SentinelIndex,
			Reason: "queue counts total " + utoa(uint32(total)) + ", capacity is " + utoa(uint32(s.capacity)),
		}
	}

	var seen [MaxCapacity]bool
	if err := s.validateQueue(-1, &s.free, &seen); err != nil {
		return err
	}
	for p := range s.ready {
		if err := s.validateQueue(p, &s.ready[p], &seen); err != nil {
			return err
		}
	}

	for i := EventQueIndex(0); i < s.capacity; i++ {
		if !seen[i] {
			return &InvariantError{Queue: "arena", Index: i, Reason: "slot not in any queue"}
		}
	}
	return nil
}

func (s *Scheduler) validateQueue(qi int, q *eventQueue, seen *[MaxCapacity]bool) error {
	fail := func(index EventQueIndex, reason string) error {
		return &InvariantError{Queue: queueName(qi), Index: index, Reason: reason}
	}

	if q.count == 0 {
		if q.first != SentinelIndex || q.last != SentinelIndex {
			return fail(SentinelIndex, "empty queue without sentinel endpoints")
		}
		return nil
	}

	if q.first >= s.capacity || q.last >= s.capacity {
		return fail(SentinelIndex, "endpoint out of range")
	}
	if s.arena.slots[q.first].prev != SentinelIndex {
		return fail(q.first, "first element has a predecessor")
	}
	if s.arena.slots[q.last].next != SentinelIndex {
		return fail(q.last, "last element has a successor")
	}

	index := q.first
	for n := 0; n < int(q.count); n++ {
		if index >= s.capacity {
			return fail(index, "link out of range")
		}
		if seen[index] {
			return fail(index, "slot linked twice")
		}
		seen[index] = true

		sl := &s.arena.slots[index]
		if sl.next == index || sl.prev == index {
			return fail(index, "slot links to itself")
		}
		if n == int(q.count)-1 {
			if index != q.last {
				return fail(index, "forward walk does not end at last")
			}
			break
		}
		if sl.next == SentinelIndex {
			return fail(index, "list shorter than count")
		}
		if sl.next < s.capacity && s.arena.slots[sl.next].prev != index {
			return fail(sl.next, "previous link disagrees with next link")
		}
		index = sl.next
	}
	return nil
}
