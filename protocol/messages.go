package protocol

import "errors"

// Message ids. Device to host reports are below 0x10, host requests above.
const (
	MsgStats      = 0x01
	MsgTrace      = 0x02
	MsgTraceEnd   = 0x03
	MsgActivity   = 0x04
	MsgGetStats   = 0x10
	MsgDumpTrace  = 0x11
	MsgResetStats = 0x12
)

var (
	ErrUnknownMessage = errors.New("protocol: unknown message id")
	ErrShortMessage   = errors.New("protocol: truncated message")
)

// Message is a payload that can be framed by FrameEncoder
type Message interface {
	MessageID() uint32
	encode(out OutputBuffer)
}

// StatsReport is the scheduler's counters and queue depths
type StatsReport struct {
	Posted     uint32
	Dispatched uint32
	Cancelled  uint32
	Rejected   uint32
	Free       uint8
	Pending    uint8
	MinFree    uint8
	MaxPending uint8
	Capacity   uint8

	// Drops outside the scheduler: sensor samples skipped to keep arena
	// headroom, host bytes lost to a full input ring, frames the device
	// could not write out
	SampleDrops uint32
	InputDrops  uint32
	OutputDrops uint32
}

// TraceReport is one entry of the scheduler's trace ring
type TraceReport struct {
	Clock    uint32
	Handler  uint32 // low 32 bits of the handler's code address
	Kind     uint8
	Priority uint8
	Slot     uint8
}

// TraceEnd closes a trace dump
type TraceEnd struct {
	Count uint8
}

// ActivityReport is the running gesture count, sent on every step
type ActivityReport struct {
	Steps uint32
	Taps  uint32
}

// GetStats asks the device for a StatsReport
type GetStats struct{}

// DumpTrace asks the device to send its trace ring
type DumpTrace struct{}

// ResetStats asks the device to restart its counters and watermarks. The
// device answers with a fresh StatsReport.
type ResetStats struct{}

func (StatsReport) MessageID() uint32    { return MsgStats }
func (TraceReport) MessageID() uint32    { return MsgTrace }
func (TraceEnd) MessageID() uint32       { return MsgTraceEnd }
func (ActivityReport) MessageID() uint32 { return MsgActivity }
func (GetStats) MessageID() uint32       { return MsgGetStats }
func (DumpTrace) MessageID() uint32      { return MsgDumpTrace }
func (ResetStats) MessageID() uint32     { return MsgResetStats }

func (r StatsReport) encode(out OutputBuffer) {
	EncodeVLQUint(out, r.Posted)
	EncodeVLQUint(out, r.Dispatched)
	EncodeVLQUint(out, r.Cancelled)
	EncodeVLQUint(out, r.Rejected)
	EncodeVLQUint(out, uint32(r.Free))
	EncodeVLQUint(out, uint32(r.Pending))
	EncodeVLQUint(out, uint32(r.MinFree))
	EncodeVLQUint(out, uint32(r.MaxPending))
	EncodeVLQUint(out, uint32(r.Capacity))
	EncodeVLQUint(out, r.SampleDrops)
	EncodeVLQUint(out, r.InputDrops)
	EncodeVLQUint(out, r.OutputDrops)
}

func (r TraceReport) encode(out OutputBuffer) {
	EncodeVLQUint(out, uint32(r.Kind))
	EncodeVLQUint(out, uint32(r.Priority))
	EncodeVLQUint(out, uint32(r.Slot))
	EncodeVLQUint(out, r.Clock)
	EncodeVLQUint(out, r.Handler)
}

func (r TraceEnd) encode(out OutputBuffer) {
	EncodeVLQUint(out, uint32(r.Count))
}

func (r ActivityReport) encode(out OutputBuffer) {
	EncodeVLQUint(out, r.Steps)
	EncodeVLQUint(out, r.Taps)
}

func (GetStats) encode(out OutputBuffer)   {}
func (DumpTrace) encode(out OutputBuffer)  {}
func (ResetStats) encode(out OutputBuffer) {}

// DecodeMessage parses a frame payload into one of the message types
func DecodeMessage(payload []byte) (Message, error) {
	r := fieldReader{data: payload}
	id := r.u32()
	if r.err != nil {
		return nil, r.err
	}

	var msg Message
	switch id {
	case MsgStats:
		msg = StatsReport{
			Posted:     r.u32(),
			Dispatched: r.u32(),
			Cancelled:  r.u32(),
			Rejected:   r.u32(),
			Free:       r.u8(),
			Pending:    r.u8(),
			MinFree:    r.u8(),
			MaxPending: r.u8(),
			Capacity:   r.u8(),

			SampleDrops: r.u32(),
			InputDrops:  r.u32(),
			OutputDrops: r.u32(),
		}
	case MsgTrace:
		msg = TraceReport{
			Kind:     r.u8(),
			Priority: r.u8(),
			Slot:     r.u8(),
			Clock:    r.u32(),
			Handler:  r.u32(),
		}
	case MsgTraceEnd:
		msg = TraceEnd{Count: r.u8()}
	case MsgActivity:
		msg = ActivityReport{Steps: r.u32(), Taps: r.u32()}
	case MsgGetStats:
		msg = GetStats{}
	case MsgDumpTrace:
		msg = DumpTrace{}
	case MsgResetStats:
		msg = ResetStats{}
	default:
		return nil, ErrUnknownMessage
	}

	if r.err != nil {
		return nil, r.err
	}
	return msg, nil
}

// fieldReader decodes VLQ fields in order, keeping the first error.
// Go evaluates composite literal fields left to right, so fields can be
// read directly into a struct literal.
type fieldReader struct {
	data []byte
	err  error
}

func (r *fieldReader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	v, err := DecodeVLQUint(&r.data)
	if err != nil {
		if errors.Is(err, ErrBufferTooSmall) {
			err = ErrShortMessage
		}
		r.err = err
	}
	return v
}

func (r *fieldReader) u8() uint8 {
	return uint8(r.u32())
}
