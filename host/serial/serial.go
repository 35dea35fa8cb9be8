// Package serial opens the device's USB CDC port on the host
package serial

import (
	"io"
)

// Port is an open serial connection. NativePort implements it over
// github.com/tarm/serial and tests substitute pipes.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores this)
	Baud int

	// Read timeout in milliseconds (0 = block until data arrives)
	ReadTimeout int
}

// DefaultConfig returns the configuration the firmware's CDC port expects
func DefaultConfig(device string) *Config {
	return &Config{
		Device: device,
		Baud:   250000,
	}
}
