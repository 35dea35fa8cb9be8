//go:build rp2040

package main

import (
	"machine"

	"evsched/core"
	"evsched/gesture"
)

const (
	buttonPin  = machine.GP15
	debounceUS = 30000
)

var debounce = gesture.Debouncer{WindowUS: debounceUS}

// InitButton posts a HIGHEST event, stamped with the hardware time, on
// every falling edge
func InitButton() error {
	buttonPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return buttonPin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		_ = core.Post(core.Highest, onButton, core.EventArg(GetHardwareTime()))
	})
}

// onButton acknowledges the wearer: queued alerts are dropped and a short
// confirmation buzz replaces them
func onButton(arg core.EventArg) {
	if !debounce.Accept(uint32(arg)) {
		return
	}

	for core.Cancel(onHaptic) {
	}
	haptic.Stop()
	_ = core.Post(core.MidHigh, onHaptic, PatternAck)
}
