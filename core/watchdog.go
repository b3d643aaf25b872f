package core

// WatchdogEvent identifies an escalation the watchdog performed.
type WatchdogEvent uint8

const (
	EventSensorReinit WatchdogEvent = iota // component-local recovery rung
	EventFullReset                         // ladder exhausted
	EventTaskStalled                       // liveness check saw no tick progress
)

// WatchdogConfig fixes the escalation budgets.
type WatchdogConfig struct {
	// MaxConsecutiveInvalid is the number of consecutive invalid records
	// before the sensor driver is re-initialized.
	MaxConsecutiveInvalid uint32

	// MaxConsecutiveMissed is the number of consecutive missed acquisition
	// deadlines before escalation.
	MaxConsecutiveMissed uint32

	// MaxReinitAttempts is the number of component reinits tried before the
	// ladder escalates to a full device reset.
	MaxReinitAttempts uint32
}

// DefaultWatchdogConfig returns the budgets used on the fingertip boards.
func DefaultWatchdogConfig() WatchdogConfig {
	return WatchdogConfig{
		MaxConsecutiveInvalid: 50,
		MaxConsecutiveMissed:  8,
		MaxReinitAttempts:     3,
	}
}

// Watchdog supervises acquisition liveness and sensor health and runs the
// recovery ladder: driver-level retry (inside SensorDriver), component
// reinit with sequence reset, then full device reset. Each rung has a fixed
// attempt budget; each threshold crossing fires exactly once, not once per
// faulty tick.
type Watchdog struct {
	cfg WatchdogConfig

	sensor    *SensorDriver
	resetSeq  func() // restarts sequence numbering after component recovery
	fullReset func() // registered by the target; last rung of the ladder
	notify    func(WatchdogEvent)

	consecInvalid  uint32
	consecMissed   uint32
	reinitAttempts uint32
	reinitFailures uint32
	busErrors      uint32

	lastSeenTick uint32
	liveness     Timer
	task         *AcquisitionTask
}

// NewWatchdog creates a watchdog over the given sensor driver. resetSeq is
// invoked on every component recovery so the host can detect the restart.
func NewWatchdog(cfg WatchdogConfig, sensor *SensorDriver, resetSeq func()) *Watchdog {
	return &Watchdog{cfg: cfg, sensor: sensor, resetSeq: resetSeq}
}

// SetResetHandler registers the target's full device reset. Without one the
// ladder stops at component recovery.
func (w *Watchdog) SetResetHandler(reset func()) {
	w.fullReset = reset
}

// SetNotify registers an event callback (host flagging, tests).
func (w *Watchdog) SetNotify(notify func(WatchdogEvent)) {
	w.notify = notify
}

// NoteRecord accounts one published record. Valid records clear the fault
// run; invalid ones extend it and escalate when the budget is spent.
func (w *Watchdog) NoteRecord(rec *SampleRecord) {
	if rec.Valid {
		w.consecInvalid = 0
		w.reinitAttempts = 0
		return
	}
	w.consecInvalid++
	if w.consecInvalid == w.cfg.MaxConsecutiveInvalid {
		w.consecInvalid = 0
		w.escalate()
	}
}

// NoteDeadlineMiss accounts one missed acquisition deadline.
func (w *Watchdog) NoteDeadlineMiss() {
	w.consecMissed++
	if w.consecMissed == w.cfg.MaxConsecutiveMissed {
		w.consecMissed = 0
		w.escalate()
	}
}

// NoteOverrunRun reports a sustained run of tick overruns. Overrunning ticks
// still complete, so they clear the missed-deadline run; this entry point
// escalates directly instead of feeding that counter. The caller applies the
// run-length threshold and reports each crossing once.
func (w *Watchdog) NoteOverrunRun() {
	w.escalate()
}

// NoteDeadlineMet clears the missed-deadline run.
func (w *Watchdog) NoteDeadlineMet() {
	w.consecMissed = 0
}

// NoteBusError counts an SPI framing error. These are host-observable and
// need no device-side recovery; the count feeds diagnostics only.
func (w *Watchdog) NoteBusError() {
	w.busErrors++
}

// BusErrors returns the framing error count.
func (w *Watchdog) BusErrors() uint32 {
	return w.busErrors
}

// escalate climbs one rung of the ladder.
func (w *Watchdog) escalate() {
	if w.reinitAttempts >= w.cfg.MaxReinitAttempts {
		w.fire(EventFullReset)
		if w.fullReset != nil {
			w.fullReset()
		}
		return
	}
	w.reinitAttempts++
	w.fire(EventSensorReinit)
	if err := w.sensor.Reinit(); err != nil {
		w.reinitFailures++
	}
	if w.resetSeq != nil {
		w.resetSeq()
	}
}

func (w *Watchdog) fire(ev WatchdogEvent) {
	if w.notify != nil {
		w.notify(ev)
	}
}

// Supervise schedules a periodic liveness check of the acquisition task on
// q. A check interval with no tick progress counts as a stall and escalates.
func (w *Watchdog) Supervise(q *TimerQueue, task *AcquisitionTask, intervalTicks uint32) {
	w.task = task
	w.lastSeenTick = task.TickCount()
	w.liveness.WakeTime = GetTime() + intervalTicks
	w.liveness.Handler = func(t *Timer) uint8 {
		now := task.TickCount()
		if now == w.lastSeenTick {
			w.fire(EventTaskStalled)
			w.escalate()
		}
		w.lastSeenTick = now
		t.WakeTime += intervalTicks
		return SF_RESCHEDULE
	}
	q.Schedule(&w.liveness)
}
