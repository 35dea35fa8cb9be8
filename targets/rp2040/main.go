//go:build rp2040

// Command rp2040 is wearable firmware built on the evsched dispatcher: a
// button, a wrist accelerometer, a haptic motor and USB telemetry, all
// driven from one priority event loop.
package main

import (
	"machine"

	"evsched/core"
)

const (
	hapticPin = machine.GP16
	hapticSM  = 0

	// Post a stats report at most this often after a rejection, 1s
	reportDivider = 100
)

// rejectSeen is set by the OnReject hook, which must not post itself
var rejectSeen bool

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// Debug text would corrupt the framed telemetry stream
	core.SetDebugEnabled(false)

	InitUSB()

	cfg := core.DefaultConfig()
	cfg.Idle = idle
	cfg.OnReject = func(core.Priority) { rejectSeen = true }
	if err := core.InitializeStatic(cfg); err != nil {
		return
	}

	if err := haptic.Init(hapticPin, hapticSM); err != nil {
		return
	}
	if err := InitMotion(); err != nil {
		// Runs without motion sensing, the button and telemetry still work
		motionReady = false
	}
	if err := InitButton(); err != nil {
		return
	}

	// Boot buzz, dispatched once the loop starts
	_ = core.Post(core.MidHigh, onHaptic, PatternAck)

	InitClock()
	core.StartDispatchEventLoop()
}

// idle runs with interrupts disabled whenever no event is pending
func idle() {
	UpdateSystemTime()
	if pollUSB() {
		return
	}
	core.WaitForInterrupt()
}

// onTick runs in the timer interrupt every TickPeriodUS
func onTick(tick uint32, now uint32) {
	if motionReady && tick%motionDivider == 0 {
		postMotionSample(now)
	}

	if rejectSeen && tick%reportDivider == 0 {
		rejectSeen = false
		_ = core.Post(core.Lowest, sendStatsEvent, core.ArgBlank)
	}
}
