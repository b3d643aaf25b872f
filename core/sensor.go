package core

// SensorDriver polls the configured channels through a SensorBus. It is the
// leaf of the acquisition path: one bounded bus transaction per channel per
// tick, at most one silent retry, and a status-tagged reading either way.
type SensorDriver struct {
	bus      SensorBus
	channels []ChannelConfig

	// retries counts silent retries that rescued a reading; reads from the
	// tick path only.
	retries uint32
}

// NewSensorDriver creates a driver for the configured channel map.
func NewSensorDriver(bus SensorBus, channels []ChannelConfig) *SensorDriver {
	return &SensorDriver{bus: bus, channels: channels}
}

// ReadChannel reads one channel. A first failure is retried once to ride out
// a transient glitch; a second failure tags the reading invalid rather than
// eating more of the tick budget.
func (d *SensorDriver) ReadChannel(ch ChannelConfig) RawReading {
	value, err := d.bus.ReadChannel(ch)
	if err != nil {
		value, err = d.bus.ReadChannel(ch)
		if err == nil {
			d.retries++
		}
	}
	if err != nil {
		return RawReading{Channel: ch.ID, Status: busStatusOf(err)}
	}
	return RawReading{Channel: ch.ID, Value: value, Status: BusOK}
}

// ReadAll reads every configured channel in order into dst, which must hold
// len(Channels()) readings.
func (d *SensorDriver) ReadAll(dst []RawReading) {
	for i, ch := range d.channels {
		dst[i] = d.ReadChannel(ch)
	}
}

// Channels returns the configured channel map.
func (d *SensorDriver) Channels() []ChannelConfig {
	return d.channels
}

// Reinit re-initializes the underlying bus. Watchdog recovery rung.
func (d *SensorDriver) Reinit() error {
	return d.bus.Reinit()
}

// Retries returns the count of reads rescued by the single silent retry.
func (d *SensorDriver) Retries() uint32 {
	return d.retries
}

func busStatusOf(err error) BusStatus {
	if err == ErrBusChecksum {
		return BusChecksumFail
	}
	return BusTimeout
}
