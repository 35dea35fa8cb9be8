//go:build rp2040

package main

import (
	"machine"

	"evsched/core"
	"evsched/protocol"
)

var (
	inputBuffer *protocol.FifoBuffer
	outbox      *protocol.Outbox
	decoder     protocol.FrameDecoder

	// usbQueued is set while an onUSBData event is pending
	usbQueued bool

	// usbDropped counts input ring overruns
	usbDropped uint32
)

// InitUSB initializes USB serial communication. On RP2040 machine.Serial is
// the USB CDC-ACM port set up by TinyGo's runtime.
func InitUSB() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}

	inputBuffer = protocol.NewFifoBuffer(256)
	outbox = protocol.NewOutbox()
}

// USBAvailable returns the number of bytes available to read from USB
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBRead reads a single byte from USB
func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// USBWriteBytes writes multiple bytes to USB
func USBWriteBytes(data []byte) (int, error) {
	return machine.Serial.Write(data)
}

// usbWriter adapts USBWriteBytes for the outbox
type usbWriter struct{}

func (usbWriter) Write(data []byte) (int, error) {
	return USBWriteBytes(data)
}

// pollUSB runs from the idle hook with interrupts disabled and queues a
// LOWEST event when host bytes are waiting
func pollUSB() bool {
	if usbQueued || USBAvailable() == 0 {
		return false
	}
	if core.AddEvent(core.Lowest, onUSBData, core.ArgBlank) != nil {
		return false
	}
	usbQueued = true
	return true
}

// onUSBData drains the CDC buffer and answers every complete request
func onUSBData(core.EventArg) {
	state := core.DisableInterrupts()
	usbQueued = false
	core.RestoreInterrupts(state)

	for USBAvailable() > 0 {
		b, err := USBRead()
		if err != nil {
			break
		}
		if inputBuffer.Write([]byte{b}) == 0 {
			usbDropped++
			inputBuffer.Reset()
			decoder.Reset()
		}
	}

	var window [256]byte
	n := inputBuffer.Peek(window[:])
	inputBuffer.Pop(decoder.Decode(window[:n], handleRequest))
}

func handleRequest(seq uint8, payload []byte) {
	msg, err := protocol.DecodeMessage(payload)
	if err != nil {
		return
	}

	switch msg.(type) {
	case protocol.GetStats:
		sendStats()
	case protocol.DumpTrace:
		sendTrace()
	case protocol.ResetStats:
		state := core.DisableInterrupts()
		core.Default().ResetStats()
		motionDropped = 0
		usbDropped = 0
		outbox.Dropped = 0
		core.RestoreInterrupts(state)
		sendStats()
	}
}

// statsReport snapshots the scheduler under the guard
func statsReport() protocol.StatsReport {
	s := core.Default()

	state := core.DisableInterrupts()
	st := s.Stats()
	free := s.GetEventFreeCapacity()
	pending := s.GetEventCount()
	capacity := s.Capacity()
	sampleDrops := motionDropped
	core.RestoreInterrupts(state)

	return protocol.StatsReport{
		Posted:     st.Posted,
		Dispatched: st.Dispatched,
		Cancelled:  st.Cancelled,
		Rejected:   st.Rejected,
		Free:       uint8(free),
		Pending:    uint8(pending),
		MinFree:    uint8(st.MinFree),
		MaxPending: uint8(st.MaxPending),
		Capacity:   uint8(capacity),

		SampleDrops: sampleDrops,
		InputDrops:  usbDropped,
		OutputDrops: outbox.Dropped,
	}
}

func sendStats() {
	send(statsReport())
}

// sendStatsEvent is the LOWEST handler posted after a rejection
func sendStatsEvent(core.EventArg) {
	sendStats()
}

func sendTrace() {
	var entries [core.TraceRingSize]core.TraceEntry

	state := core.DisableInterrupts()
	n := core.Default().TraceSnapshot(entries[:])
	core.RestoreInterrupts(state)

	for _, e := range entries[:n] {
		send(protocol.TraceReport{
			Clock:    e.Clock,
			Handler:  uint32(e.Handler),
			Kind:     uint8(e.Kind),
			Priority: uint8(e.Priority),
			Slot:     uint8(e.Slot),
		})
	}
	send(protocol.TraceEnd{Count: uint8(n)})
}

// send frames msg into the outbox. A short USB write is resumed by the
// next send; the outbox gives up on its backlog after repeated failures so
// a disconnected host does not wedge telemetry.
func send(msg protocol.Message) {
	_ = outbox.Send(usbWriter{}, msg)
}
