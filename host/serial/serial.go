// Package serial abstracts the development-host serial link that bridges
// the fingertip board's frame stream to a workstation.
package serial

import (
	"io"
)

// Port represents a serial port. The abstraction keeps the frame reader
// testable against an in-memory implementation.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3").
	Device string

	// Baud rate. USB CDC bridges ignore this.
	Baud int

	// Read timeout in milliseconds (0 = blocking).
	ReadTimeout int
}

// DefaultConfig returns the configuration used with the standard USB bridge.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
