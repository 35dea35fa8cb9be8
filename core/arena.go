package core

// EventQueIndex is the absolute position of a slot in the arena.
// Links between slots are indices rather than pointers, so the whole
// queue structure lives in fixed-size arrays.
type EventQueIndex uint8

// SentinelIndex marks "no element" at a list boundary
const SentinelIndex EventQueIndex = 0xFF

// Fails to compile if MaxCapacity would collide with the sentinel
var _ [SentinelIndex - MaxCapacity]struct{}

// slot is one record of the arena
type slot struct {
	handler Handler
	id      uintptr // handlerID(handler), cached for cancellation scans
	arg     EventArg
	next    EventQueIndex
	prev    EventQueIndex
}

// eventQueue is a doubly-linked list header over the arena.
// When count is zero, first and last are both SentinelIndex.
type eventQueue struct {
	count EventQueIndex
	first EventQueIndex
	last  EventQueIndex
}

// arena holds every slot shared by the free queue and the ready queues
type arena struct {
	slots [MaxCapacity]slot
}

// reset empties q
func (q *eventQueue) reset() {
	q.count = 0
	q.first = SentinelIndex
	q.last = SentinelIndex
}

// dequeueFromHead unlinks the first element of q and returns its index.
// Returns SentinelIndex and leaves q untouched if q is empty.
func (a *arena) dequeueFromHead(q *eventQueue) EventQueIndex {
	if q.count == 0 {
		return SentinelIndex
	}

	index := q.first
	s := &a.slots[index]

	q.first = s.next
	if q.first == SentinelIndex {
		q.last = SentinelIndex
	} else {
		a.slots[q.first].prev = SentinelIndex
	}
	q.count--

	s.next = SentinelIndex
	s.prev = SentinelIndex
	return index
}

// dequeueFromTail unlinks the last element of q and returns its index.
// Returns SentinelIndex and leaves q untouched if q is empty.
func (a *arena) dequeueFromTail(q *eventQueue) EventQueIndex {
	if q.count == 0 {
		return SentinelIndex
	}

	index := q.last
	s := &a.slots[index]

	q.last = s.prev
	if q.last == SentinelIndex {
		q.first = SentinelIndex
	} else {
		a.slots[q.last].next = SentinelIndex
	}
	q.count--

	s.next = SentinelIndex
	s.prev = SentinelIndex
	return index
}

// dequeueFromAbsoluteIndex splices the element at index out of q.
// index must currently be linked into q.
func (a *arena) dequeueFromAbsoluteIndex(q *eventQueue, index EventQueIndex) EventQueIndex {
	if q.count == 0 || int(index) >= MaxCapacity {
		return SentinelIndex
	}

	s := &a.slots[index]

	if s.prev == SentinelIndex {
		q.first = s.next
	} else {
		a.slots[s.prev].next = s.next
	}

	if s.next == SentinelIndex {
		q.last = s.prev
	} else {
		a.slots[s.next].prev = s.prev
	}
	q.count--

	s.next = SentinelIndex
	s.prev = SentinelIndex
	return index
}

// enqueueToHead writes the event into the slot at index and links it
// before the current first element of q
func (a *arena) enqueueToHead(q *eventQueue, index EventQueIndex, handler Handler, arg EventArg) {
	a.store(index, handler, arg)
	a.linkHead(q, index)
}

// enqueueToTail writes the event into the slot at index and links it
// after the current last element of q
func (a *arena) enqueueToTail(q *eventQueue, index EventQueIndex, handler Handler, arg EventArg) {
	a.store(index, handler, arg)
	a.linkTail(q, index)
}

// enqueueToHeadOfFreeQueue clears the slot and returns it to the head of
// the free queue, so the most recently released slot is reused first
func (a *arena) enqueueToHeadOfFreeQueue(free *eventQueue, index EventQueIndex) {
	a.store(index, nil, ArgBlank)
	a.linkHead(free, index)
}

func (a *arena) store(index EventQueIndex, handler Handler, arg EventArg) {
	s := &a.slots[index]
	s.handler = handler
	s.id = handlerID(handler)
	s.arg = arg
}

func (a *arena) linkHead(q *eventQueue, index EventQueIndex) {
	s := &a.slots[index]
	s.prev = SentinelIndex
	s.next = q.first

	if q.first == SentinelIndex {
		q.last = index
	} else {
		a.slots[q.first].prev = index
	}
	q.first = index
	q.count++
}

func (a *arena) linkTail(q *eventQueue, index EventQueIndex) {
	s := &a.slots[index]
	s.next = SentinelIndex
	s.prev = q.last

	if q.last == SentinelIndex {
		q.first = index
	} else {
		a.slots[q.last].next = index
	}
	q.last = index
	q.count++
}

// find returns the first slot in q whose handler identity is id
func (a *arena) find(q *eventQueue, id uintptr) EventQueIndex {
	for i := q.first; i != SentinelIndex; i = a.slots[i].next {
		if a.slots[i].id == id {
			return i
		}
	}
	return SentinelIndex
}
