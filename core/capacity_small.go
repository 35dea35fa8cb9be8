//go:build evcap64

package core

// MaxCapacity is the arena size compiled into the firmware
const MaxCapacity = 64
