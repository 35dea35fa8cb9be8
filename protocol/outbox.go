package protocol

import (
	"errors"
	"io"
)

// DefaultMaxFailures is how many failed flushes an Outbox tolerates before
// discarding what it holds
const DefaultMaxFailures = 10

// Outbox frames messages into a fixed buffer and writes them out. A short
// write resumes where it stopped on the next Flush, so no byte is sent
// twice. Not safe for concurrent use.
type Outbox struct {
	enc  FrameEncoder
	out  ScratchOutput
	sent int

	failures    uint32
	MaxFailures uint32

	// Dropped counts messages refused for lack of space plus messages
	// discarded after MaxFailures consecutive failed flushes
	Dropped uint32

	// queued counts messages encoded since the buffer was last emptied
	queued uint32
}

// NewOutbox creates an Outbox with DefaultMaxFailures
func NewOutbox() *Outbox {
	return &Outbox{MaxFailures: DefaultMaxFailures}
}

// Send frames msg and flushes. When the buffer is full it flushes first and
// retries once; a message that still does not fit is dropped.
func (o *Outbox) Send(w io.Writer, msg Message) error {
	err := o.enc.EncodeMessage(&o.out, msg)
	if errors.Is(err, ErrBufferFull) {
		if ferr := o.Flush(w); ferr != nil {
			o.Dropped++
			return ferr
		}
		err = o.enc.EncodeMessage(&o.out, msg)
	}
	if err != nil {
		o.Dropped++
		return err
	}
	o.queued++
	return o.Flush(w)
}

// Flush writes the unsent part of the buffer. After MaxFailures consecutive
// failures the buffer is discarded and its messages counted as dropped.
func (o *Outbox) Flush(w io.Writer) error {
	data := o.out.Result()
	for o.sent < len(data) {
		n, err := w.Write(data[o.sent:])
		o.sent += n
		if err == nil && n == 0 {
			err = io.ErrShortWrite
		}
		if err != nil {
			o.failures++
			if o.failures > o.MaxFailures {
				o.Dropped += o.queued
				o.reset()
			}
			return err
		}
	}
	o.reset()
	return nil
}

// Pending returns the number of bytes still to be written
func (o *Outbox) Pending() int {
	return o.out.CurPosition() - o.sent
}

func (o *Outbox) reset() {
	o.out.Reset()
	o.sent = 0
	o.failures = 0
	o.queued = 0
}
