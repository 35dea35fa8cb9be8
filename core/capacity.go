//go:build !evcap64

package core

// MaxCapacity is the arena size compiled into the firmware.
// Build with -tags evcap64 to shrink it on parts with little RAM.
const MaxCapacity = 255
