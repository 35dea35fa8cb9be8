//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"evsched/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerALARM3   = timerBase + 0x1C // Alarm 3 target, writing arms it
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word
	timerINTR     = timerBase + 0x34 // Raw interrupts, write 1 to clear
	timerINTE     = timerBase + 0x38 // Interrupt enable

	alarm3Bit = 1 << 3
)

// TickPeriodUS is the period of the scheduler tick. The runtime owns alarm 0
// for sleeps, the tick uses alarm 3.
const TickPeriodUS = 10000

var (
	timerAlarm3 = (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM3)))
	timerRAWL   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
	timerIntr   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	timerInte   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))

	// tickPeriod is TickPeriodUS in scheduler clock ticks
	tickPeriod = core.TicksFromUS(TickPeriodUS)

	nextTick  uint32
	tickCount uint32
)

// InitClock seeds the scheduler clock and starts the periodic tick. The
// timer runs at 1MHz, matching core.TickFreq.
func InitClock() {
	UpdateSystemTime()

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_3, tickISR)
	timerInte.SetBits(alarm3Bit)
	intr.Enable()

	nextTick = GetHardwareTime() + tickPeriod
	timerAlarm3.Set(nextTick)
}

// GetHardwareTime reads the low 32 bits of the microsecond counter
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime copies the hardware counter into the scheduler clock
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}

func tickISR(interrupt.Interrupt) {
	timerIntr.Set(alarm3Bit)

	now := GetHardwareTime()
	nextTick += tickPeriod
	// Missed periods are skipped so the alarm is never armed in the past
	if int32(nextTick-now) <= 0 {
		nextTick = now + tickPeriod
	}
	timerAlarm3.Set(nextTick)

	core.SetTime(now)
	tickCount++
	onTick(tickCount, now)
}
