package protocol

import (
	"bytes"
	"errors"
)

var (
	// ErrFrameTooLong is returned when a message does not fit in FrameMax
	ErrFrameTooLong = errors.New("protocol: frame too long")

	// ErrBufferFull is returned when the output buffer cannot hold the frame
	ErrBufferFull = errors.New("protocol: output buffer full")
)

// FrameEncoder frames outgoing messages and numbers them
type FrameEncoder struct {
	seq uint8
}

// EncodeFrame writes one frame whose payload is produced by body. On
// ErrFrameTooLong or ErrBufferFull nothing is left in output and the
// sequence is not used.
func (e *FrameEncoder) EncodeFrame(output OutputBuffer, body func(OutputBuffer)) error {
	start := output.CurPosition()

	output.Output([]byte{0, SeqDest | e.seq&SeqMask})
	body(output)

	n := len(output.DataSince(start)) + FrameTrailerSize
	if n > FrameMax {
		output.Truncate(start)
		return ErrFrameTooLong
	}
	output.Update(start+FramePositionLen, uint8(n))

	crc := CRC16(output.DataSince(start))
	output.Output([]byte{uint8(crc >> 8), uint8(crc), SyncByte})

	// A short body leaves the buffer full, so the trailer is lost as well
	if len(output.DataSince(start)) != n {
		output.Truncate(start)
		return ErrBufferFull
	}

	e.seq = (e.seq + 1) & SeqMask
	return nil
}

// EncodeMessage frames one message
func (e *FrameEncoder) EncodeMessage(output OutputBuffer, msg Message) error {
	return e.EncodeFrame(output, func(out OutputBuffer) {
		EncodeVLQUint(out, msg.MessageID())
		msg.encode(out)
	})
}

// FrameDecoder extracts frames from a byte stream, dropping garbage and
// corrupted frames until the next sync byte
type FrameDecoder struct {
	// Errors counts frames dropped for bad length, sequence, sync or CRC
	Errors uint32

	// Gaps counts sequence discontinuities, i.e. frames lost in transit
	Gaps uint32

	lastSeq  uint8
	haveSeq  bool
	unsynced bool
}

// Decode calls fn for each valid frame in data, in order, and returns how
// many bytes were consumed. A trailing partial frame is left unconsumed so
// the caller can retry once more bytes arrive. payload aliases data.
func (d *FrameDecoder) Decode(data []byte, fn func(seq uint8, payload []byte)) int {
	original := len(data)

	for len(data) > 0 {
		if d.unsynced {
			i := bytes.IndexByte(data, SyncByte)
			if i < 0 {
				data = data[len(data):]
				break
			}
			data = data[i+1:]
			d.unsynced = false
			continue
		}

		if data[0] == SyncByte {
			data = data[1:]
			continue
		}
		if len(data) < FrameMin {
			break
		}

		n := int(data[FramePositionLen])
		seq := data[FramePositionSeq]
		if n < FrameMin || n > FrameMax || seq&^SeqMask != SeqDest {
			d.desync()
			continue
		}
		if len(data) < n {
			break
		}

		frame := data[:n]
		crc := uint16(frame[n-FrameTrailerSize])<<8 | uint16(frame[n-FrameTrailerSize+1])
		if frame[n-1] != SyncByte || CRC16(frame[:n-FrameTrailerSize]) != crc {
			d.desync()
			continue
		}

		d.noteSeq(seq)
		fn(seq, frame[FrameHeaderSize:n-FrameTrailerSize])
		data = data[n:]
	}

	return original - len(data)
}

func (d *FrameDecoder) desync() {
	d.unsynced = true
	d.Errors++
}

func (d *FrameDecoder) noteSeq(seq uint8) {
	if d.haveSeq && seq != SeqDest|(d.lastSeq+1)&SeqMask {
		d.Gaps++
	}
	d.lastSeq = seq
	d.haveSeq = true
}

// Reset forgets sequence history and counters
func (d *FrameDecoder) Reset() {
	*d = FrameDecoder{}
}
