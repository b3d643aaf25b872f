package core

import "pfsfw/protocol"

// Firmware is the composition root for the acquisition/transfer core. It is
// an explicitly constructed object, not a process-wide singleton, so tests
// can run multiple independent instances.
type Firmware struct {
	Config    Config
	Timers    *TimerQueue
	Store     *SampleStore
	Driver    *SensorDriver
	Assembler *Assembler
	Task      *AcquisitionTask
	Responder *Responder
	Watchdog  *Watchdog

	onRecal func()
}

// NewFirmware validates the configuration and wires the core components
// around the given sensor bus.
func NewFirmware(cfg Config, bus SensorBus) (*Firmware, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fw := &Firmware{
		Config: cfg,
		Timers: NewTimerQueue(),
		Store:  NewSampleStore(),
	}
	fw.Driver = NewSensorDriver(bus, cfg.Channels)
	fw.Assembler = NewAssembler(cfg.Channels)
	fw.Watchdog = NewWatchdog(DefaultWatchdogConfig(), fw.Driver, func() {
		fw.resetSequence()
	})
	fw.Task = NewAcquisitionTask(fw.Driver, fw.Assembler, fw.Store, fw.Watchdog, cfg.TickPeriodUS)
	fw.Responder = NewResponder(fw.Store, len(cfg.Channels), fw.applyCommand)
	return fw, nil
}

// SetRecalHandler registers the action behind the host's recalibrate
// command. Applied post-transaction like every command.
func (fw *Firmware) SetRecalHandler(recal func()) {
	fw.onRecal = recal
}

// Start schedules the acquisition tick and the watchdog's liveness check.
// The liveness interval is a whole multiple of the tick period so a healthy
// task always makes progress between checks.
func (fw *Firmware) Start(now uint32) {
	fw.Task.Start(fw.Timers, now)
	fw.Watchdog.Supervise(fw.Timers, fw.Task, 64*fw.Task.PeriodTicks())
}

// Poll runs due timers. Target main loops call this every iteration.
func (fw *Firmware) Poll() {
	fw.Timers.Dispatch(GetTime())
}

func (fw *Firmware) applyCommand(op uint8) {
	switch op {
	case protocol.CmdRecal:
		if fw.onRecal != nil {
			fw.onRecal()
		}
	case protocol.CmdSeqReset:
		fw.resetSequence()
	}
}

// resetSequence restarts numbering in the task and tells the responder, so
// its stale check does not reject the post-reset records.
func (fw *Firmware) resetSequence() {
	fw.Task.ResetSequence()
	fw.Responder.ResetSequence()
}
