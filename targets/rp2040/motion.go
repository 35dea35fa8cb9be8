//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/adxl345"

	"evsched/core"
	"evsched/gesture"
	"evsched/protocol"
)

const (
	// Sample every motionDivider ticks, 50Hz
	motionDivider = 2

	// Samples are dropped from the tick interrupt while this few slots
	// are free, leaving room for the button and haptic events
	motionReserve = 4

	// A goal buzz plays every stepGoal steps
	stepGoal = 1000
)

var (
	accel         adxl345.Device
	motionReady   bool
	detector      = gesture.NewDetector(gesture.DefaultThresholds())
	motionDropped uint32
)

// InitMotion brings up the ADXL345 on I2C0 (SDA=GP4, SCL=GP5)
func InitMotion() error {
	err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz})
	if err != nil {
		return err
	}

	accel = adxl345.New(machine.I2C0)
	accel.Configure()
	accel.SetRate(adxl345.RATE_100HZ)
	accel.SetRange(adxl345.RANGE_4G)
	motionReady = true
	return nil
}

// postMotionSample runs in the tick interrupt. Free capacity is checked and
// the slot taken under one guard so the reserve cannot be raced away.
func postMotionSample(now uint32) {
	state := core.DisableInterrupts()
	if core.GetEventFreeCapacity() > motionReserve {
		_ = core.AddEvent(core.MidLow, onMotionSample, core.EventArg(now))
	} else {
		motionDropped++
	}
	core.RestoreInterrupts(state)
}

// onMotionSample is the MIDLOW handler, the argument is the tick time
func onMotionSample(arg core.EventArg) {
	x, y, z := accel.ReadRawAcceleration()
	ev := detector.Sample(uint32(arg), x, y, z)
	if ev&gesture.Tap != 0 {
		_ = core.Post(core.MidHigh, onHaptic, PatternTap)
	}
	if ev&gesture.Step != 0 {
		_ = core.Post(core.Lowest, onStep, core.EventArg(detector.Steps()))
	}
}

// onStep is the LOWEST handler, the argument is the step count. Telemetry
// and the goal buzz stay off the sampling path.
func onStep(arg core.EventArg) {
	steps := uint32(arg)
	if steps%stepGoal == 0 {
		_ = core.Post(core.MidHigh, onHaptic, PatternGoal)
	}
	send(protocol.ActivityReport{Steps: steps, Taps: detector.Taps()})
}
