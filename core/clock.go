package core

import "sync/atomic"

// TickFreq is the rate of the clock fed by board code (RP2040 timer, 1MHz)
const TickFreq = 1000000

var systemTicks atomic.Uint32

// GetTime returns the current system time in ticks.
// Used to timestamp trace entries.
func GetTime() uint32 {
	return systemTicks.Load()
}

// SetTime sets the current system time. Board code calls it from the main
// loop or a timer interrupt; tests call it directly.
func SetTime(ticks uint32) {
	systemTicks.Store(ticks)
}

// TicksToUS converts clock ticks to microseconds
func TicksToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TickFreq)
}

// TicksFromUS converts microseconds to clock ticks
func TicksFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TickFreq / 1000000)
}
