package core

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Bus-level failures reported by SensorBus implementations. Anything else is
// mapped to BusTimeout by the sensor driver.
var (
	ErrBusTimeout  = errors.New("sensor bus timeout")
	ErrBusChecksum = errors.New("sensor bus checksum failure")
)

// SensorBus is the abstract sensor bus interface the core uses. Reads must
// complete within the configured bus timeout or fail; implementations never
// block indefinitely.
type SensorBus interface {
	// ReadChannel reads one channel's raw value from the bus.
	ReadChannel(ch ChannelConfig) (int32, error)

	// Reinit re-initializes the bus after sustained failures. Called from
	// the watchdog's component-recovery rung, never from the tick path.
	Reinit() error
}

// I2CSensorBus reads fingertip sensor boards over I2C. Each channel maps to
// a 16-bit big-endian register on one of the boards. The underlying
// controller bounds each transaction; a failed Tx surfaces as ErrBusTimeout.
type I2CSensorBus struct {
	bus drivers.I2C
}

// NewI2CSensorBus wraps an I2C controller as a SensorBus.
func NewI2CSensorBus(bus drivers.I2C) *I2CSensorBus {
	return &I2CSensorBus{bus: bus}
}

func (b *I2CSensorBus) ReadChannel(ch ChannelConfig) (int32, error) {
	var buf [2]byte
	if err := b.bus.Tx(ch.Addr, []byte{ch.Reg}, buf[:]); err != nil {
		return 0, ErrBusTimeout
	}
	return int32(int16(uint16(buf[0])<<8 | uint16(buf[1]))), nil
}

// Reinit is a no-op for hardware I2C; the controller holds no state worth
// clearing beyond what a fresh transaction establishes. Targets that need a
// full peripheral reset wrap this type.
func (b *I2CSensorBus) Reinit() error {
	return nil
}
