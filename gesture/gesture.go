// Package gesture turns raw accelerometer samples and button edges into
// wearer events. It allocates nothing and is safe to call from handlers.
package gesture

// Event flags returned by Detector.Sample
type Event uint8

const (
	Step Event = 1 << iota
	Tap
)

// Thresholds are in raw counts of the L1 magnitude |x|+|y|+|z|
type Thresholds struct {
	StepHigh     int32
	StepLow      int32
	Tap          int32
	TapHoldoffUS uint32
}

// DefaultThresholds suits an ADXL345 at ±4g, about 256 counts per g
func DefaultThresholds() Thresholds {
	return Thresholds{
		StepHigh:     384,
		StepLow:      300,
		Tap:          1400,
		TapHoldoffUS: 500000,
	}
}

// Detector counts steps with a hysteresis band and reports taps on sharp
// impacts, at most once per holdoff window
type Detector struct {
	th      Thresholds
	above   bool
	lastTap uint32
	steps   uint32
	taps    uint32
}

// NewDetector creates a Detector
func NewDetector(th Thresholds) *Detector {
	return &Detector{th: th}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Sample feeds one reading taken at microsecond time at. Times wrap at 32
// bits and are compared by difference.
func (d *Detector) Sample(at uint32, x, y, z int32) Event {
	var ev Event
	mag := abs32(x) + abs32(y) + abs32(z)

	switch {
	case mag > d.th.StepHigh && !d.above:
		d.above = true
		d.steps++
		ev |= Step
	case mag < d.th.StepLow:
		d.above = false
	}

	if mag > d.th.Tap && (d.taps == 0 || at-d.lastTap > d.th.TapHoldoffUS) {
		d.lastTap = at
		d.taps++
		ev |= Tap
	}
	return ev
}

// Steps returns the number of steps counted
func (d *Detector) Steps() uint32 {
	return d.steps
}

// Taps returns the number of taps reported
func (d *Detector) Taps() uint32 {
	return d.taps
}

// Debouncer accepts edges separated by more than WindowUS
type Debouncer struct {
	WindowUS uint32
	last     uint32
	seen     bool
	accepted uint32
}

// Accept reports whether an edge at time at is a new press
func (b *Debouncer) Accept(at uint32) bool {
	if b.seen && at-b.last < b.WindowUS {
		return false
	}
	b.last = at
	b.seen = true
	b.accepted++
	return true
}

// Count returns the number of accepted presses
func (b *Debouncer) Count() uint32 {
	return b.accepted
}
