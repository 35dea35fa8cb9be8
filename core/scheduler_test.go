package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects the order handlers ran in
type recorder struct {
	calls []string
	args  []EventArg
}

func (r *recorder) hit(name string, arg EventArg) {
	r.calls = append(r.calls, name)
	r.args = append(r.args, arg)
}

func newScheduler(t *testing.T, capacity int) *Scheduler {
	t.Helper()
	s := &Scheduler{}
	require.NoError(t, s.Init(Config{Capacity: capacity, Trace: true}))
	require.NoError(t, s.Validate())
	return s
}

func TestInitRejectsCapacity(t *testing.T) {
	var s Scheduler
	for _, capacity := range []int{0, -1, MaxCapacity + 1} {
		assert.ErrorIs(t, s.Init(Config{Capacity: capacity}), ErrCapacity, "capacity %d", capacity)
	}
	require.NoError(t, s.Init(Config{Capacity: MaxCapacity}))
	assert.Equal(t, EventQueIndex(MaxCapacity), s.GetEventFreeCapacity())
	assert.NoError(t, s.Validate())
}

func TestInitialState(t *testing.T) {
	s := newScheduler(t, 8)

	assert.Equal(t, EventQueIndex(8), s.GetEventFreeCapacity())
	assert.Equal(t, EventQueIndex(0), s.GetEventCount())
	assert.Equal(t, EventQueIndex(8), s.Capacity())
	assert.False(t, s.DispatchOne())
}

func TestUninitializedScheduler(t *testing.T) {
	var s Scheduler

	assert.ErrorIs(t, s.AddEvent(Highest, noopHandler, 0), ErrNotInitialized)
	assert.False(t, s.DeleteEvent(noopHandler))
	assert.False(t, s.DispatchOne())
	assert.ErrorIs(t, s.Validate(), ErrNotInitialized)
}

func TestAddEventArgumentErrors(t *testing.T) {
	s := newScheduler(t, 4)

	assert.ErrorIs(t, s.AddEvent(Priority(4), noopHandler, 0), ErrInvalidPriority)
	assert.ErrorIs(t, s.AddEvent(Priority(255), noopHandler, 0), ErrInvalidPriority)
	assert.ErrorIs(t, s.AddEvent(Lowest, nil, 0), ErrNilHandler)
	assert.Equal(t, EventQueIndex(4), s.GetEventFreeCapacity())
	assert.Equal(t, uint32(0), s.Stats().Posted)
	assert.NoError(t, s.Validate())
}

// Capacity 4: A, B, C at MIDLOW, then D at HIGHEST, then cancel B, then
// overflow.
func TestCapacityFourScenario(t *testing.T) {
	s := newScheduler(t, 4)
	var rec recorder
	handlerA := func(arg EventArg) { rec.hit("A", arg) }
	handlerB := func(arg EventArg) { rec.hit("B", arg) }
	handlerC := func(arg EventArg) { rec.hit("C", arg) }
	handlerD := func(arg EventArg) { rec.hit("D", arg) }
	handlerE := func(arg EventArg) { rec.hit("E", arg) }

	require.NoError(t, s.AddEvent(MidLow, handlerA, 1))
	require.NoError(t, s.AddEvent(MidLow, handlerB, 2))
	require.NoError(t, s.AddEvent(MidLow, handlerC, 3))
	require.NoError(t, s.AddEvent(Highest, handlerD, 4))
	require.NoError(t, s.Validate())

	assert.Equal(t, EventQueIndex(0), s.GetEventFreeCapacity())
	assert.Equal(t, EventQueIndex(4), s.GetEventCount())

	err := s.AddEvent(Highest, handlerE, 5)
	assert.ErrorIs(t, err, ErrQueueFull)
	require.NoError(t, s.Validate())
	assert.Equal(t, EventQueIndex(4), s.GetEventCount())
	assert.Equal(t, uint32(1), s.Stats().Rejected)

	assert.True(t, s.DeleteEvent(handlerB))
	require.NoError(t, s.Validate())
	assert.Equal(t, EventQueIndex(1), s.GetEventFreeCapacity())

	assert.Equal(t, 3, s.DispatchPending())
	assert.Equal(t, []string{"D", "A", "C"}, rec.calls)
	assert.Equal(t, []EventArg{4, 1, 3}, rec.args)
	assert.Equal(t, EventQueIndex(4), s.GetEventFreeCapacity())
	assert.NoError(t, s.Validate())
}

func TestPriorityOrdering(t *testing.T) {
	s := newScheduler(t, 16)
	var rec recorder
	low := func(arg EventArg) { rec.hit("lowest", arg) }
	midLow := func(arg EventArg) { rec.hit("midlow", arg) }
	midHigh := func(arg EventArg) { rec.hit("midhigh", arg) }
	high := func(arg EventArg) { rec.hit("highest", arg) }

	require.NoError(t, s.AddEvent(Lowest, low, 1))
	require.NoError(t, s.AddEvent(MidLow, midLow, 2))
	require.NoError(t, s.AddEvent(Lowest, low, 3))
	require.NoError(t, s.AddEvent(MidHigh, midHigh, 4))
	require.NoError(t, s.AddEvent(Highest, high, 5))
	require.NoError(t, s.AddEvent(MidLow, midLow, 6))

	assert.Equal(t, EventQueIndex(2), s.PendingAt(Lowest))
	assert.Equal(t, EventQueIndex(2), s.PendingAt(MidLow))
	assert.Equal(t, EventQueIndex(0), s.PendingAt(Priority(9)))

	s.DispatchPending()
	assert.Equal(t, []string{"highest", "midhigh", "midlow", "midlow", "lowest", "lowest"}, rec.calls)
	assert.Equal(t, []EventArg{5, 4, 2, 6, 1, 3}, rec.args)
}

func TestHandlerPostingDuringDispatch(t *testing.T) {
	s := newScheduler(t, 2)
	var rec recorder
	var follow Handler
	follow = func(arg EventArg) {
		rec.hit("follow", arg)
		if arg < 3 {
			require.NoError(t, s.AddEvent(MidLow, follow, arg+1))
		}
	}
	urgent := func(arg EventArg) { rec.hit("urgent", arg) }
	first := func(arg EventArg) {
		rec.hit("first", arg)
		require.NoError(t, s.AddEvent(MidLow, follow, 1))
		require.NoError(t, s.AddEvent(Highest, urgent, 0))
	}

	require.NoError(t, s.AddEvent(Lowest, first, 0))
	assert.Equal(t, 5, s.DispatchPending())
	assert.Equal(t, []string{"first", "urgent", "follow", "follow", "follow"}, rec.calls)
	assert.NoError(t, s.Validate())
}

func TestDispatchedSlotIsFreeBeforeHandlerRuns(t *testing.T) {
	s := newScheduler(t, 1)
	var seenFree EventQueIndex
	handler := func(arg EventArg) { seenFree = s.GetEventFreeCapacity() }

	require.NoError(t, s.AddEvent(Highest, handler, 0))
	require.True(t, s.DispatchOne())
	assert.Equal(t, EventQueIndex(1), seenFree)
}

func TestDeleteEventFirstMatchOnly(t *testing.T) {
	s := newScheduler(t, 8)
	var rec recorder
	dup := func(arg EventArg) { rec.hit("dup", arg) }
	other := func(arg EventArg) { rec.hit("other", arg) }

	require.NoError(t, s.AddEvent(MidHigh, dup, 1))
	require.NoError(t, s.AddEvent(MidHigh, other, 2))
	require.NoError(t, s.AddEvent(MidHigh, dup, 3))
	require.NoError(t, s.AddEvent(Lowest, dup, 4))

	assert.True(t, s.DeleteEvent(dup))
	require.NoError(t, s.Validate())

	s.DispatchPending()
	assert.Equal(t, []string{"other", "dup", "dup"}, rec.calls)
	assert.Equal(t, []EventArg{2, 3, 4}, rec.args)
}

func TestDeleteEventSearchesHighestFirst(t *testing.T) {
	s := newScheduler(t, 8)
	var rec recorder
	h := func(arg EventArg) { rec.hit("h", arg) }

	require.NoError(t, s.AddEvent(Lowest, h, 1))
	require.NoError(t, s.AddEvent(MidHigh, h, 2))

	assert.True(t, s.DeleteEvent(h))
	assert.Equal(t, EventQueIndex(0), s.PendingAt(MidHigh))
	assert.Equal(t, EventQueIndex(1), s.PendingAt(Lowest))
}

func TestDeleteEventAt(t *testing.T) {
	s := newScheduler(t, 8)
	var rec recorder
	h := func(arg EventArg) { rec.hit("h", arg) }

	require.NoError(t, s.AddEvent(MidHigh, h, 1))
	require.NoError(t, s.AddEvent(Lowest, h, 2))

	assert.False(t, s.DeleteEventAt(MidLow, h))
	assert.False(t, s.DeleteEventAt(Priority(7), h))
	assert.True(t, s.DeleteEventAt(Lowest, h))
	assert.False(t, s.DeleteEventAt(Lowest, h))
	require.NoError(t, s.Validate())

	s.DispatchPending()
	assert.Equal(t, []EventArg{1}, rec.args)
}

func TestDeleteEventNoMatchIsNoop(t *testing.T) {
	s := newScheduler(t, 4)
	queued := func(arg EventArg) {}
	absent := func(arg EventArg) {}

	require.NoError(t, s.AddEvent(MidLow, queued, 0))
	assert.False(t, s.DeleteEvent(absent))
	assert.False(t, s.DeleteEvent(nil))
	assert.Equal(t, EventQueIndex(1), s.GetEventCount())
	assert.Equal(t, uint32(0), s.Stats().Cancelled)
	assert.NoError(t, s.Validate())
}

func TestReusedSlotCarriesNewEvent(t *testing.T) {
	s := newScheduler(t, 1)
	var rec recorder
	stale := func(arg EventArg) { rec.hit("stale", arg) }
	fresh := func(arg EventArg) { rec.hit("fresh", arg) }

	require.NoError(t, s.AddEvent(Highest, stale, 0xdead))
	require.True(t, s.DeleteEvent(stale))
	require.NoError(t, s.AddEvent(Lowest, fresh, 7))

	assert.Equal(t, 1, s.DispatchPending())
	assert.Equal(t, []string{"fresh"}, rec.calls)
	assert.Equal(t, []EventArg{7}, rec.args)

	require.NoError(t, s.AddEvent(MidLow, stale, 8))
	s.DispatchPending()
	assert.Equal(t, []EventArg{7, 8}, rec.args)
}

func TestOnRejectHook(t *testing.T) {
	var rejected []Priority
	s := &Scheduler{}
	require.NoError(t, s.Init(Config{
		Capacity: 1,
		OnReject: func(p Priority) { rejected = append(rejected, p) },
	}))

	require.NoError(t, s.AddEvent(Lowest, noopHandler, 0))
	err := s.AddEvent(MidHigh, noopHandler, 0)
	assert.True(t, errors.Is(err, ErrQueueFull))
	assert.Equal(t, []Priority{MidHigh}, rejected)
}

func TestCapacityAccounting(t *testing.T) {
	s := newScheduler(t, 5)
	handlers := []Handler{
		func(arg EventArg) {},
		func(arg EventArg) {},
		func(arg EventArg) {},
	}

	check := func() {
		t.Helper()
		assert.Equal(t, s.Capacity(), s.GetEventFreeCapacity()+s.GetEventCount())
	}

	for i := 0; i < 7; i++ {
		_ = s.AddEvent(Priority(i%NumPriorities), handlers[i%len(handlers)], EventArg(i))
		check()
	}
	s.DeleteEvent(handlers[1])
	check()
	s.DispatchOne()
	check()
	s.DispatchPending()
	check()
}

func TestReinitDiscardsPending(t *testing.T) {
	s := newScheduler(t, 4)
	require.NoError(t, s.AddEvent(Highest, noopHandler, 0))
	require.NoError(t, s.Init(Config{Capacity: 2}))

	assert.Equal(t, EventQueIndex(0), s.GetEventCount())
	assert.Equal(t, EventQueIndex(2), s.GetEventFreeCapacity())
	assert.Equal(t, Stats{MinFree: 2}, s.Stats())
	assert.NoError(t, s.Validate())
}

func TestResetStats(t *testing.T) {
	s := newScheduler(t, 4)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.AddEvent(Lowest, noopHandler, EventArg(i)))
	}
	require.True(t, s.DispatchOne())
	require.True(t, s.DispatchOne())

	s.ResetStats()
	assert.Equal(t, Stats{MinFree: 3, MaxPending: 1}, s.Stats(), "watermarks restart from the queue as it is")
	assert.Equal(t, EventQueIndex(1), s.GetEventCount(), "pending events are kept")

	require.NoError(t, s.AddEvent(Lowest, noopHandler, 0))
	assert.Equal(t, Stats{Posted: 1, MinFree: 2, MaxPending: 2}, s.Stats())
	assert.NoError(t, s.Validate())
}

func TestPriorityString(t *testing.T) {
	assert.Equal(t, "HIGHEST", Highest.String())
	assert.Equal(t, "MIDHIGH", MidHigh.String())
	assert.Equal(t, "MIDLOW", MidLow.String())
	assert.Equal(t, "LOWEST", Lowest.String())
	assert.Equal(t, "INVALID(9)", Priority(9).String())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultCapacity, cfg.Capacity)
	assert.True(t, cfg.Trace)
	assert.NoError(t, cfg.validate())
}
