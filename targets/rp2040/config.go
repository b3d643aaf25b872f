//go:build rp2040

package main

import "pfsfw/core"

// Fingertip board wiring: one I2C bus carries the proximity and force
// boards plus the pressure sensor; the SPI slave port faces the robot
// controller. All of this is fixed at build time.
const (
	proximityAddr = 0x28
	forceAddr     = 0x29
	pressureAddr  = 0x2A

	proximityCells = 8
	forceCells     = 4
)

// boardConfig returns the build-time configuration for the fingertip board.
// Calibration coefficients come from the per-board factory sheet; the values
// here are the defaults for an uncharacterized board.
func boardConfig() core.Config {
	cfg := core.Config{
		TickPeriodUS: 1000, // 1kHz acquisition
		BusTimeoutUS: 500,
		SPIMode:      0,
	}

	id := core.ChannelID(0)
	for i := 0; i < proximityCells; i++ {
		cfg.Channels = append(cfg.Channels, core.ChannelConfig{
			ID:    id,
			Addr:  proximityAddr,
			Reg:   uint8(0x10 + 2*i),
			Calib: core.Affine{Scale: 1},
		})
		id++
	}
	for i := 0; i < forceCells; i++ {
		cfg.Channels = append(cfg.Channels, core.ChannelConfig{
			ID:    id,
			Addr:  forceAddr,
			Reg:   uint8(0x10 + 2*i),
			Calib: core.Affine{Scale: 0.0098}, // raw LSB to newtons
		})
		id++
	}
	cfg.Channels = append(cfg.Channels, core.ChannelConfig{
		ID:    id,
		Addr:  pressureAddr,
		Reg:   0x04,
		Calib: core.Affine{Scale: 0.25, Offset: 300}, // raw LSB to hPa
	})

	return cfg
}
