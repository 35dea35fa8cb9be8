// Package protocol implements the telemetry link between the firmware
// scheduler and the host monitor: Klipper-style frames carrying VLQ
// encoded messages.
//
// A frame is
//
//	[len][seq][payload ...][crc hi][crc lo][0x7E]
//
// where len counts the whole frame and the CRC covers len, seq and the
// payload. The payload is one message id followed by its fields.
package protocol

// Version is the telemetry protocol version reported by the monitor
const Version = "0.1.0"

// Frame layout
const (
	FrameHeaderSize  = 2
	FrameTrailerSize = 3
	FrameMin         = FrameHeaderSize + FrameTrailerSize
	FrameMax         = 64

	FramePositionLen = 0
	FramePositionSeq = 1

	// SyncByte terminates every frame and is used to resynchronize
	SyncByte = 0x7E

	// SeqDest is set in the high nibble of every sequence byte
	SeqDest = 0x10
	SeqMask = 0x0F
)

// ScratchSize is the capacity of a ScratchOutput, enough for several frames
const ScratchSize = 512
