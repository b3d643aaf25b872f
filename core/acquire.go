package core

import "sync/atomic"

// Acquisition cycle states. One full cycle per tick, no reentrancy: a tick
// that fires while the previous cycle is still in flight is skipped and
// counted as a missed deadline.
const (
	taskIdle uint32 = iota
	taskSampling
	taskAssembling
	taskPublishing
)

// AcquisitionStats are the task's diagnostic counters. Written from the tick
// context; read anywhere.
type AcquisitionStats struct {
	Ticks           uint32
	Overruns        uint32
	MissedDeadlines uint32
}

// AcquisitionTask drives the sensor driver and assembler once per tick and
// publishes the result. Invalid records are published too, so the host sees
// a timely invalid flag instead of a frozen old valid record.
type AcquisitionTask struct {
	driver *SensorDriver
	asm    *Assembler
	store  *SampleStore
	wd     *Watchdog

	periodTicks uint32
	timer       Timer

	state   uint32 // atomic; reentrancy guard
	nextSeq uint32 // atomic; reset by the watchdog and CmdSeqReset

	ticks           uint32 // atomic; liveness check reads this
	overruns        uint32
	consecOverruns  uint32
	missedDeadlines uint32

	raws [MaxChannels]RawReading
}

// NewAcquisitionTask wires the acquisition path. The watchdog may be nil in
// narrow tests; production wiring always provides one.
func NewAcquisitionTask(driver *SensorDriver, asm *Assembler, store *SampleStore, wd *Watchdog, periodUS uint32) *AcquisitionTask {
	return &AcquisitionTask{
		driver:      driver,
		asm:         asm,
		store:       store,
		wd:          wd,
		periodTicks: TimerFromUS(periodUS),
	}
}

// Start schedules the first tick on q.
func (t *AcquisitionTask) Start(q *TimerQueue, now uint32) {
	t.timer.WakeTime = now + t.periodTicks
	t.timer.Handler = t.timerEvent
	q.Schedule(&t.timer)
}

// timerEvent runs one cycle and reschedules. An overrun schedules the next
// tick immediately instead of compounding drift.
func (t *AcquisitionTask) timerEvent(tm *Timer) uint8 {
	t.RunTick(tm.WakeTime)

	next := tm.WakeTime + t.periodTicks
	now := GetTime()
	if !timerBefore(now, next) {
		t.overruns++
		t.consecOverruns++
		if t.wd != nil && t.consecOverruns == overrunEscalation {
			t.consecOverruns = 0
			t.wd.NoteOverrunRun()
		}
		next = now
	} else {
		t.consecOverruns = 0
	}
	tm.WakeTime = next
	return SF_RESCHEDULE
}

// overrunEscalation is the consecutive-overrun run length reported to the
// watchdog as one sustained-overrun crossing.
const overrunEscalation = 4

// RunTick runs one full Idle→Sampling→Assembling→Publishing cycle. Returns
// false if the previous cycle was still in flight and this tick was skipped.
// Exported so hosts and tests can drive ticks without a hardware timer.
func (t *AcquisitionTask) RunTick(now uint32) bool {
	if !atomic.CompareAndSwapUint32(&t.state, taskIdle, taskSampling) {
		t.missedDeadlines++
		if t.wd != nil {
			t.wd.NoteDeadlineMiss()
		}
		return false
	}

	n := t.asm.ChannelCount()
	t.driver.ReadAll(t.raws[:n])

	atomic.StoreUint32(&t.state, taskAssembling)
	tick := atomic.AddUint32(&t.ticks, 1)
	seq := atomic.AddUint32(&t.nextSeq, 1)
	rec := t.asm.Assemble(t.raws[:n], tick, seq)

	atomic.StoreUint32(&t.state, taskPublishing)
	t.store.Publish(&rec)
	if t.wd != nil {
		t.wd.NoteRecord(&rec)
		t.wd.NoteDeadlineMet()
	}

	atomic.StoreUint32(&t.state, taskIdle)
	return true
}

// ResetSequence restarts sequence numbering from zero. Called by the
// watchdog's recovery rung and by the host's sequence-reset command, both
// strictly outside an in-flight transaction.
func (t *AcquisitionTask) ResetSequence() {
	atomic.StoreUint32(&t.nextSeq, 0)
}

// TickCount returns the number of completed ticks.
func (t *AcquisitionTask) TickCount() uint32 {
	return atomic.LoadUint32(&t.ticks)
}

// PeriodTicks returns the tick period in timer ticks.
func (t *AcquisitionTask) PeriodTicks() uint32 {
	return t.periodTicks
}

// Stats returns a snapshot of the diagnostic counters.
func (t *AcquisitionTask) Stats() AcquisitionStats {
	return AcquisitionStats{
		Ticks:           atomic.LoadUint32(&t.ticks),
		Overruns:        t.overruns,
		MissedDeadlines: t.missedDeadlines,
	}
}
