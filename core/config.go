package core

import (
	"errors"

	"pfsfw/protocol"
)

// SPIMode represents SPI clock polarity and phase (0-3).
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 1: CPOL=0, CPHA=1 (clock idle low, sample on falling edge)
// Mode 2: CPOL=1, CPHA=0 (clock idle high, sample on falling edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type SPIMode uint8

// Affine holds one channel's calibration transform, fixed at configuration
// time: calibrated = raw*Scale + Offset.
type Affine struct {
	Scale  float32
	Offset float32
}

// Apply converts a raw bus value to a calibrated reading.
func (a Affine) Apply(raw int32) float32 {
	return float32(raw)*a.Scale + a.Offset
}

// ChannelConfig describes one sensor channel: where it lives on the bus and
// how to calibrate it.
type ChannelConfig struct {
	ID    ChannelID
	Addr  uint16 // 7-bit bus address of the owning board
	Reg   uint8  // register holding the 16-bit reading
	Calib Affine
}

// Config is the build-time configuration surface: channel map, acquisition
// cadence, bus timeout and SPI electrical mode. Nothing here is negotiated
// at runtime.
type Config struct {
	Channels     []ChannelConfig
	TickPeriodUS uint32
	BusTimeoutUS uint32
	SPIMode      SPIMode
}

var (
	ErrNoChannels      = errors.New("config: no channels")
	ErrTooManyChannels = errors.New("config: channel count exceeds MaxChannels")
	ErrZeroTick        = errors.New("config: tick period must be nonzero")
	ErrBadSPIMode      = errors.New("config: SPI mode must be 0-3")
)

// Validate checks the configuration once at construction.
func (c *Config) Validate() error {
	if len(c.Channels) == 0 {
		return ErrNoChannels
	}
	if len(c.Channels) > MaxChannels {
		return ErrTooManyChannels
	}
	if c.TickPeriodUS == 0 {
		return ErrZeroTick
	}
	if c.SPIMode > 3 {
		return ErrBadSPIMode
	}
	return nil
}

// FrameLen returns the constant wire frame length for this configuration.
func (c *Config) FrameLen() int {
	return protocol.FrameLen(len(c.Channels))
}
