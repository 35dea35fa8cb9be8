// Package monitor reads scheduler telemetry from a device and logs it
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"evsched/core"
	"evsched/host/logging"
	"evsched/protocol"
)

// Config controls polling and alerting
type Config struct {
	// PollInterval between GetStats requests, 0 disables polling
	PollInterval time.Duration

	// MinFreeWarn warns once the device's free-capacity low-water mark
	// drops below this many slots
	MinFreeWarn uint8

	// TraceOnReject requests a trace dump whenever Rejected grows
	TraceOnReject bool

	// OnStats, OnTrace and OnActivity run on the Run goroutine for every
	// report
	OnStats    func(protocol.StatsReport)
	OnTrace    func([]protocol.TraceReport)
	OnActivity func(protocol.ActivityReport)
}

// Monitor decodes telemetry frames from a port. Run owns all decode state;
// the request methods may be called from any goroutine.
type Monitor struct {
	port io.ReadWriter
	log  *logging.Logger
	cfg  Config

	writeMutex sync.Mutex
	outbox     *protocol.Outbox

	input      *protocol.FifoBuffer
	dec        protocol.FrameDecoder
	decErrors  uint32
	decGaps    uint32
	last       protocol.StatsReport
	haveLast   bool
	underWater bool
	trace      []protocol.TraceReport
}

// New creates a monitor on port. A nil logger discards output.
func New(port io.ReadWriter, log *logging.Logger, cfg Config) *Monitor {
	if log == nil {
		log = logging.Discard()
	}
	return &Monitor{
		port:   port,
		log:    log,
		cfg:    cfg,
		outbox: protocol.NewOutbox(),
		input:  protocol.NewFifoBuffer(protocol.ScratchSize + 1),
	}
}

// RequestStats asks the device for a StatsReport
func (m *Monitor) RequestStats() error {
	return m.send(protocol.GetStats{})
}

// RequestTrace asks the device to dump its trace ring
func (m *Monitor) RequestTrace() error {
	return m.send(protocol.DumpTrace{})
}

// RequestResetStats asks the device to restart its counters and
// watermarks. The device answers with a StatsReport.
func (m *Monitor) RequestResetStats() error {
	return m.send(protocol.ResetStats{})
}

// send writes one request. What a short write leaves behind goes out
// ahead of the next request.
func (m *Monitor) send(msg protocol.Message) error {
	m.writeMutex.Lock()
	defer m.writeMutex.Unlock()

	if err := m.outbox.Send(m.port, msg); err != nil {
		return fmt.Errorf("monitor: write request: %w", err)
	}
	return nil
}

// Run reads and handles reports until ctx is cancelled or the port reaches
// EOF, both of which return nil. The reader goroutine stays blocked in Read
// until the caller closes the port.
func (m *Monitor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks := make(chan []byte)
	readErr := make(chan error, 1)
	go m.readLoop(ctx, chunks, readErr)

	var tick <-chan time.Time
	if m.cfg.PollInterval > 0 {
		ticker := time.NewTicker(m.cfg.PollInterval)
		defer ticker.Stop()
		tick = ticker.C

		if err := m.RequestStats(); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("monitor: read: %w", err)

		case chunk := <-chunks:
			m.feed(chunk)

		case <-tick:
			if err := m.RequestStats(); err != nil {
				return err
			}
		}
	}
}

func (m *Monitor) readLoop(ctx context.Context, chunks chan<- []byte, readErr chan<- error) {
	buffer := make([]byte, 256)

	for {
		n, err := m.port.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			readErr <- err
			return
		}
	}
}

// feed buffers raw bytes and handles every complete frame
func (m *Monitor) feed(data []byte) {
	var window [protocol.ScratchSize]byte

	for len(data) > 0 {
		n := m.input.Write(data)
		data = data[n:]

		avail := m.input.Peek(window[:])
		m.input.Pop(m.dec.Decode(window[:avail], m.handleFrame))
	}

	if m.dec.Errors != m.decErrors || m.dec.Gaps != m.decGaps {
		m.log.Debug().
			Int64("crc_errors", int64(m.dec.Errors)).
			Int64("seq_gaps", int64(m.dec.Gaps)).
			Log("telemetry stream damaged")
		m.decErrors, m.decGaps = m.dec.Errors, m.dec.Gaps
	}
}

func (m *Monitor) handleFrame(seq uint8, payload []byte) {
	msg, err := protocol.DecodeMessage(payload)
	if err != nil {
		m.log.Warning().
			Err(err).
			Int("seq", int(seq&protocol.SeqMask)).
			Log("dropping undecodable report")
		return
	}

	switch r := msg.(type) {
	case protocol.StatsReport:
		m.handleStats(r)
	case protocol.TraceReport:
		m.trace = append(m.trace, r)
	case protocol.TraceEnd:
		m.handleTraceEnd(r)
	case protocol.ActivityReport:
		m.log.Info().
			Int64("steps", int64(r.Steps)).
			Int64("taps", int64(r.Taps)).
			Log("activity")
		if m.cfg.OnActivity != nil {
			m.cfg.OnActivity(r)
		}
	default:
		m.log.Debug().
			Int64("id", int64(msg.MessageID())).
			Log("ignoring host-bound message")
	}
}

func (m *Monitor) handleStats(r protocol.StatsReport) {
	m.log.Info().
		Int64("posted", int64(r.Posted)).
		Int64("dispatched", int64(r.Dispatched)).
		Int64("cancelled", int64(r.Cancelled)).
		Int64("rejected", int64(r.Rejected)).
		Int("free", int(r.Free)).
		Int("pending", int(r.Pending)).
		Int("min_free", int(r.MinFree)).
		Int("max_pending", int(r.MaxPending)).
		Int("capacity", int(r.Capacity)).
		Int64("sample_drops", int64(r.SampleDrops)).
		Int64("input_drops", int64(r.InputDrops)).
		Int64("output_drops", int64(r.OutputDrops)).
		Log("scheduler stats")

	if rejected := m.grown(r.Rejected, m.last.Rejected); rejected > 0 {
		m.log.Warning().
			Int64("rejected", int64(rejected)).
			Int("capacity", int(r.Capacity)).
			Log("events rejected, arena exhausted")
		if m.cfg.TraceOnReject {
			if err := m.RequestTrace(); err != nil {
				m.log.Err().Err(err).Log("trace request failed")
			}
		}
	}

	samples := m.grown(r.SampleDrops, m.last.SampleDrops)
	input := m.grown(r.InputDrops, m.last.InputDrops)
	output := m.grown(r.OutputDrops, m.last.OutputDrops)
	if samples > 0 || input > 0 || output > 0 {
		m.log.Warning().
			Int64("sample_drops", int64(samples)).
			Int64("input_drops", int64(input)).
			Int64("output_drops", int64(output)).
			Log("device dropped data")
	}

	under := r.MinFree < m.cfg.MinFreeWarn
	if under && !m.underWater {
		m.log.Warning().
			Int("min_free", int(r.MinFree)).
			Int("threshold", int(m.cfg.MinFreeWarn)).
			Log("free capacity low-water mark under threshold")
	}
	m.underWater = under

	m.last = r
	m.haveLast = true
	if m.cfg.OnStats != nil {
		m.cfg.OnStats(r)
	}
}

// grown returns how much a device counter rose since the last report. A
// counter going backwards means the device restarted or reset its stats.
func (m *Monitor) grown(cur, prev uint32) uint32 {
	if m.haveLast && cur >= prev {
		return cur - prev
	}
	return cur
}

func (m *Monitor) handleTraceEnd(r protocol.TraceEnd) {
	if int(r.Count) != len(m.trace) {
		m.log.Warning().
			Int("expected", int(r.Count)).
			Int("received", len(m.trace)).
			Log("trace dump incomplete")
	}

	for _, e := range m.trace {
		m.log.Info().
			Str("kind", core.TraceKind(e.Kind).String()).
			Str("priority", core.Priority(e.Priority).String()).
			Int("slot", int(e.Slot)).
			Int64("clock", int64(e.Clock)).
			Int64("clock_us", int64(core.TicksToUS(e.Clock))).
			Str("handler", "0x"+strconv.FormatUint(uint64(e.Handler), 16)).
			Log("trace")
	}

	entries := m.trace
	m.trace = nil
	if m.cfg.OnTrace != nil {
		m.cfg.OnTrace(entries)
	}
}
