package core

// DefaultCapacity is the arena size used by DefaultConfig
const DefaultCapacity = 32

// Config configures a Scheduler at Init time
type Config struct {
	// Capacity is the number of usable slots, 1 to MaxCapacity
	Capacity int

	// Idle is invoked by the dispatch loop, with interrupts disabled, when
	// no event is pending. It must return once an interrupt has fired or
	// after posting with AddEvent (never Post, the guard is already held).
	// Nil selects WaitForInterrupt.
	Idle func()

	// OnReject is called in the producer's context when AddEvent finds the
	// arena exhausted. It must not post or cancel events.
	OnReject func(priority Priority)

	// Trace enables the post/dispatch/cancel trace ring
	Trace bool
}

// DefaultConfig returns the configuration used by most targets
func DefaultConfig() Config {
	capacity := DefaultCapacity
	if capacity > MaxCapacity {
		capacity = MaxCapacity
	}
	return Config{
		Capacity: capacity,
		Trace:    true,
	}
}

// validate checks cfg against the compiled arena size
func (cfg *Config) validate() error {
	if cfg.Capacity < 1 || cfg.Capacity > MaxCapacity {
		return ErrCapacity
	}
	return nil
}
