//go:build !wasm

package serial

import (
	"fmt"
	"time"

	tarmserial "github.com/tarm/serial"
)

// NativePort wraps tarm/serial for real hardware access.
type NativePort struct {
	port *tarmserial.Port
}

// Open opens a serial port with the given configuration.
func Open(cfg *Config) (*NativePort, error) {
	c := &tarmserial.Config{
		Name: cfg.Device,
		Baud: cfg.Baud,
	}
	if cfg.ReadTimeout > 0 {
		c.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Millisecond
	}

	port, err := tarmserial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Device, err)
	}

	return &NativePort{port: port}, nil
}

func (p *NativePort) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

func (p *NativePort) Write(buf []byte) (int, error) {
	return p.port.Write(buf)
}

func (p *NativePort) Close() error {
	return p.port.Close()
}

func (p *NativePort) Flush() error {
	return p.port.Flush()
}
