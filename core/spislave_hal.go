package core

// TransactionHandler reacts to host-driven SPI bus activity. The slave
// cannot initiate or stall a transfer, so OnTransactionStart must return a
// complete, well-formed frame with nothing left to compute.
type TransactionHandler interface {
	// OnTransactionStart is called when the host asserts chip select. The
	// returned slice is the exact frame to clock out and must not change
	// until OnTransactionEnd.
	OnTransactionStart() []byte

	// OnTransactionEnd is called when chip select deasserts, with whatever
	// bytes the host clocked in during the transaction.
	OnTransactionEnd(rx []byte)
}

// SPISlaveConfig fixes the slave-side bus parameters at configuration time.
type SPISlaveConfig struct {
	Mode     SPIMode
	FrameLen int
}

// SPISlaveDriver is the abstract slave-side SPI interface. Targets register
// a concrete implementation (PIO shifter on RP2040, loopback in tests).
type SPISlaveDriver interface {
	Configure(cfg SPISlaveConfig) error
	SetHandler(h TransactionHandler)
}

// Global singleton used by target bring-up code.
var spiSlaveDriver SPISlaveDriver

// SetSPISlaveDriver is called by target-specific code to register its driver.
func SetSPISlaveDriver(d SPISlaveDriver) {
	spiSlaveDriver = d
}

// MustSPISlave returns the configured driver or panics if missing.
func MustSPISlave() SPISlaveDriver {
	if spiSlaveDriver == nil {
		panic("SPI slave driver not configured")
	}
	return spiSlaveDriver
}
