package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(arg EventArg) {}

// newTestArena returns an arena whose free queue links slots 0..n-1
func newTestArena(n int) (*arena, *eventQueue) {
	a := &arena{}
	free := &eventQueue{}
	free.reset()
	for i := 0; i < n; i++ {
		a.linkTail(free, EventQueIndex(i))
	}
	return a, free
}

// walk returns the indices of q from first to last
func walk(a *arena, q *eventQueue) []EventQueIndex {
	var out []EventQueIndex
	for i := q.first; i != SentinelIndex; i = a.slots[i].next {
		out = append(out, i)
	}
	return out
}

// walkBack returns the indices of q from last to first
func walkBack(a *arena, q *eventQueue) []EventQueIndex {
	var out []EventQueIndex
	for i := q.last; i != SentinelIndex; i = a.slots[i].prev {
		out = append(out, i)
	}
	return out
}

func TestDequeueFromHead(t *testing.T) {
	a, free := newTestArena(3)

	assert.Equal(t, EventQueIndex(0), a.dequeueFromHead(free))
	assert.Equal(t, []EventQueIndex{1, 2}, walk(a, free))
	assert.Equal(t, SentinelIndex, a.slots[1].prev)

	assert.Equal(t, EventQueIndex(1), a.dequeueFromHead(free))
	assert.Equal(t, EventQueIndex(2), a.dequeueFromHead(free))
	assert.Equal(t, EventQueIndex(0), free.count)
	assert.Equal(t, SentinelIndex, free.first)
	assert.Equal(t, SentinelIndex, free.last)
}

func TestDequeueFromEmptyQueue(t *testing.T) {
	a, q := newTestArena(0)

	assert.Equal(t, SentinelIndex, a.dequeueFromHead(q))
	assert.Equal(t, SentinelIndex, a.dequeueFromTail(q))
	assert.Equal(t, SentinelIndex, a.dequeueFromAbsoluteIndex(q, 0))
	assert.Equal(t, eventQueue{count: 0, first: SentinelIndex, last: SentinelIndex}, *q)
}

func TestDequeueFromTail(t *testing.T) {
	a, free := newTestArena(3)

	assert.Equal(t, EventQueIndex(2), a.dequeueFromTail(free))
	assert.Equal(t, []EventQueIndex{0, 1}, walk(a, free))
	assert.Equal(t, SentinelIndex, a.slots[1].next)
	assert.Equal(t, EventQueIndex(1), free.last)

	a.dequeueFromTail(free)
	assert.Equal(t, EventQueIndex(0), a.dequeueFromTail(free))
	assert.Equal(t, SentinelIndex, free.first)
	assert.Equal(t, SentinelIndex, free.last)
}

func TestDequeueFromAbsoluteIndex(t *testing.T) {
	tests := []struct {
		name   string
		remove EventQueIndex
		want   []EventQueIndex
	}{
		{"first", 0, []EventQueIndex{1, 2, 3}},
		{"middle", 2, []EventQueIndex{0, 1, 3}},
		{"last", 3, []EventQueIndex{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, q := newTestArena(4)

			assert.Equal(t, tt.remove, a.dequeueFromAbsoluteIndex(q, tt.remove))
			assert.Equal(t, tt.want, walk(a, q))
			assert.Equal(t, reverse(tt.want), walkBack(a, q))
			assert.Equal(t, EventQueIndex(3), q.count)
			assert.Equal(t, SentinelIndex, a.slots[tt.remove].next)
			assert.Equal(t, SentinelIndex, a.slots[tt.remove].prev)
		})
	}
}

func TestDequeueOnlyElementByIndex(t *testing.T) {
	a, q := newTestArena(1)

	assert.Equal(t, EventQueIndex(0), a.dequeueFromAbsoluteIndex(q, 0))
	assert.Equal(t, eventQueue{count: 0, first: SentinelIndex, last: SentinelIndex}, *q)
}

func TestEnqueueToHeadAndTail(t *testing.T) {
	a, free := newTestArena(4)
	q := &eventQueue{}
	q.reset()

	a.enqueueToTail(q, a.dequeueFromHead(free), noopHandler, 10)
	a.enqueueToTail(q, a.dequeueFromHead(free), noopHandler, 11)
	a.enqueueToHead(q, a.dequeueFromHead(free), noopHandler, 12)

	assert.Equal(t, []EventQueIndex{2, 0, 1}, walk(a, q))
	assert.Equal(t, []EventQueIndex{1, 0, 2}, walkBack(a, q))
	assert.Equal(t, EventQueIndex(3), q.count)
	assert.Equal(t, EventArg(12), a.slots[2].arg)
	assert.Equal(t, handlerID(noopHandler), a.slots[2].id)
	assert.Equal(t, []EventQueIndex{3}, walk(a, free))
}

func TestFreeQueueReusesMostRecentSlot(t *testing.T) {
	a, free := newTestArena(4)
	q := &eventQueue{}
	q.reset()

	first := a.dequeueFromHead(free)
	second := a.dequeueFromHead(free)
	a.enqueueToTail(q, first, noopHandler, 1)
	a.enqueueToTail(q, second, noopHandler, 2)

	released := a.dequeueFromAbsoluteIndex(q, second)
	a.enqueueToHeadOfFreeQueue(free, released)

	require.Equal(t, second, free.first)
	assert.Nil(t, a.slots[second].handler)
	assert.Equal(t, uintptr(0), a.slots[second].id)
	assert.Equal(t, ArgBlank, a.slots[second].arg)
	assert.Equal(t, second, a.dequeueFromHead(free))
}

func TestFind(t *testing.T) {
	a, free := newTestArena(4)
	q := &eventQueue{}
	q.reset()
	other := func(arg EventArg) {}

	a.enqueueToTail(q, a.dequeueFromHead(free), other, 0)
	a.enqueueToTail(q, a.dequeueFromHead(free), noopHandler, 0)
	a.enqueueToTail(q, a.dequeueFromHead(free), noopHandler, 0)

	assert.Equal(t, EventQueIndex(1), a.find(q, handlerID(noopHandler)))
	assert.Equal(t, EventQueIndex(0), a.find(q, handlerID(other)))
	assert.Equal(t, SentinelIndex, a.find(q, handlerID(func(arg EventArg) {})))
}

func reverse(in []EventQueIndex) []EventQueIndex {
	out := make([]EventQueIndex, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
