package core

// Priority orders pending events. Lower values dispatch first.
type Priority uint8

// Priority levels, highest first
const (
	Highest Priority = 0
	MidHigh Priority = 1
	MidLow  Priority = 2
	Lowest  Priority = 3
)

// NumPriorities is the number of ready queues
const NumPriorities = 4

// Valid reports whether p names one of the four ready queues
func (p Priority) Valid() bool {
	return p < NumPriorities
}

// String returns the level name used in debug output and telemetry
func (p Priority) String() string {
	switch p {
	case Highest:
		return "HIGHEST"
	case MidHigh:
		return "MIDHIGH"
	case MidLow:
		return "MIDLOW"
	case Lowest:
		return "LOWEST"
	default:
		return "INVALID(" + utoa(uint32(p)) + ")"
	}
}
