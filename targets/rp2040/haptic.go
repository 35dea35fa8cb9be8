//go:build rp2040

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"evsched/core"
)

// Each TX FIFO word drives one pulse of the vibration motor:
//
//	Bits 0-15:  on time, in hold loops
//	Bits 16-31: off time, in hold loops
//
// A hold loop is one jmp with 7 delay cycles, 8 cycles at the divided clock.
func buildHapticProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),   // 1: out x, 16 (on loops)
		asm.Out(rp2pio.OutDestY, 16).Encode(),   // 2: out y, 16 (off loops)
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 3: set pins, 1
		// on_loop:
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Delay(7).Encode(), // 4: jmp x--, 4 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),           // 5: set pins, 0
		// off_loop:
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Delay(7).Encode(), // 6: jmp y--, 6 [7]
		// .wrap
	}
}

const (
	hapticPIOOrigin = 0

	// 125MHz / 1000 = 125kHz, so a hold loop is 64us
	hapticClkDiv = 1000
	hapticLoopUS = 64
)

type pulse struct {
	OnUS, OffUS uint32
}

// Haptic patterns, selected by the event argument
const (
	PatternAck = iota
	PatternTap
	PatternGoal
	numPatterns
)

var patterns = [numPatterns][]pulse{
	PatternAck:  {{40000, 0}},
	PatternTap:  {{60000, 80000}, {60000, 0}},
	PatternGoal: {{150000, 100000}, {150000, 100000}, {300000, 0}},
}

// Haptic drives a vibration motor from a PIO state machine
type Haptic struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

var haptic Haptic

// Init loads the pulse program on PIO0 and claims a state machine
func (h *Haptic) Init(pin machine.Pin, smNum uint8) error {
	h.pio = rp2pio.PIO0
	h.sm = h.pio.StateMachine(smNum)
	h.pin = pin

	h.sm.TryClaim()

	program := buildHapticProgram()
	offset, err := h.pio.AddProgram(program, hapticPIOOrigin)
	if err != nil {
		return err
	}
	h.offset = offset

	h.pin.Configure(machine.PinConfig{Mode: h.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(h.pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(hapticClkDiv, 0)

	// Pin directions must be set after Init
	h.sm.Init(offset, cfg)
	h.sm.SetPindirsConsecutive(h.pin, 1, true)
	h.sm.SetPinsConsecutive(h.pin, 1, false)
	h.sm.SetEnabled(true)
	return nil
}

func hapticWord(p pulse) uint32 {
	on := p.OnUS / hapticLoopUS
	off := p.OffUS / hapticLoopUS
	if on > 0xFFFF {
		on = 0xFFFF
	}
	if off > 0xFFFF {
		off = 0xFFFF
	}
	return on | off<<16
}

// Play queues every pulse of a pattern. Patterns fit the 4-word TX FIFO, so
// the wait only matters when patterns are played back to back.
func (h *Haptic) Play(pattern []pulse) {
	for _, p := range pattern {
		for h.sm.IsTxFIFOFull() {
		}
		h.sm.TxPut(hapticWord(p))
	}
}

// Stop silences the motor and discards queued pulses. A pulse in progress
// finishes its hold loops with the pin already low.
func (h *Haptic) Stop() {
	h.sm.SetEnabled(false)
	h.sm.ClearFIFOs()
	h.sm.Restart()
	h.sm.SetPinsConsecutive(h.pin, 1, false)
	h.sm.SetEnabled(true)
}

// onHaptic is the MIDHIGH handler, the argument selects the pattern
func onHaptic(arg core.EventArg) {
	if arg >= numPatterns {
		return
	}
	haptic.Play(patterns[arg])
}
