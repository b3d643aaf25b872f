package core

import "testing"

func invalidRecord() SampleRecord {
	return SampleRecord{Seq: 1, Valid: false, N: 1}
}

func validRecord() SampleRecord {
	return SampleRecord{Seq: 1, Valid: true, N: 1}
}

func TestWatchdogLadder(t *testing.T) {
	bus := &fakeBus{}
	driver := NewSensorDriver(bus, testChannels(1))

	cfg := WatchdogConfig{
		MaxConsecutiveInvalid: 3,
		MaxConsecutiveMissed:  2,
		MaxReinitAttempts:     2,
	}

	var events []WatchdogEvent
	seqResets := 0
	fullResets := 0
	wd := NewWatchdog(cfg, driver, func() { seqResets++ })
	wd.SetNotify(func(ev WatchdogEvent) { events = append(events, ev) })
	wd.SetResetHandler(func() { fullResets++ })

	feedInvalid := func(n int) {
		for i := 0; i < n; i++ {
			rec := invalidRecord()
			wd.NoteRecord(&rec)
		}
	}

	// First budget exhaustion: component reinit, once.
	feedInvalid(3)
	if bus.reinits != 1 || seqResets != 1 {
		t.Fatalf("after first crossing: reinits=%d seqResets=%d, want 1/1", bus.reinits, seqResets)
	}
	if fullResets != 0 {
		t.Fatal("full reset fired before reinit budget exhausted")
	}

	// Second exhaustion: second (last) reinit attempt.
	feedInvalid(3)
	if bus.reinits != 2 {
		t.Fatalf("reinits = %d, want 2", bus.reinits)
	}

	// Third exhaustion: ladder exhausted, full reset.
	feedInvalid(3)
	if fullResets != 1 {
		t.Fatalf("fullResets = %d, want 1", fullResets)
	}

	want := []WatchdogEvent{EventSensorReinit, EventSensorReinit, EventFullReset}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %d, want %d", i, events[i], want[i])
		}
	}
}

func TestWatchdogValidRecordResetsLadder(t *testing.T) {
	bus := &fakeBus{}
	driver := NewSensorDriver(bus, testChannels(1))
	cfg := WatchdogConfig{MaxConsecutiveInvalid: 3, MaxReinitAttempts: 1}
	wd := NewWatchdog(cfg, driver, nil)

	for i := 0; i < 2; i++ {
		rec := invalidRecord()
		wd.NoteRecord(&rec)
	}
	rec := validRecord()
	wd.NoteRecord(&rec)

	// The run was broken; two more invalid ticks must not escalate.
	for i := 0; i < 2; i++ {
		bad := invalidRecord()
		wd.NoteRecord(&bad)
	}
	if bus.reinits != 0 {
		t.Errorf("reinits = %d, want 0 after the run was broken", bus.reinits)
	}
}

func TestWatchdogDeadlineMisses(t *testing.T) {
	bus := &fakeBus{}
	driver := NewSensorDriver(bus, testChannels(1))
	cfg := WatchdogConfig{MaxConsecutiveMissed: 2, MaxReinitAttempts: 1}

	var events []WatchdogEvent
	wd := NewWatchdog(cfg, driver, nil)
	wd.SetNotify(func(ev WatchdogEvent) { events = append(events, ev) })

	wd.NoteDeadlineMiss()
	wd.NoteDeadlineMet()
	wd.NoteDeadlineMiss()
	if len(events) != 0 {
		t.Fatal("escalated on a broken run of misses")
	}

	wd.NoteDeadlineMiss() // second consecutive
	if len(events) != 1 || events[0] != EventSensorReinit {
		t.Errorf("events = %v, want one EventSensorReinit", events)
	}
}

func TestWatchdogLivenessCheck(t *testing.T) {
	bus := &fakeBus{value: 1}
	cfg := testChannels(1)
	driver := NewSensorDriver(bus, cfg)
	store := NewSampleStore()

	var events []WatchdogEvent
	wd := NewWatchdog(DefaultWatchdogConfig(), driver, nil)
	wd.SetNotify(func(ev WatchdogEvent) { events = append(events, ev) })

	task := NewAcquisitionTask(driver, NewAssembler(cfg), store, wd, 1000)
	queue := NewTimerQueue()
	SetTime(0)
	wd.Supervise(queue, task, 10000)

	// Healthy: the task ticks between checks.
	task.RunTick(500)
	SetTime(10000)
	queue.Dispatch(GetTime())
	if len(events) != 0 {
		t.Fatalf("healthy task flagged as stalled: %v", events)
	}

	// Stalled: no progress over a full interval.
	SetTime(20000)
	queue.Dispatch(GetTime())
	if len(events) == 0 || events[0] != EventTaskStalled {
		t.Errorf("stall not detected, events = %v", events)
	}
	if bus.reinits != 1 {
		t.Errorf("stall did not trigger recovery, reinits = %d", bus.reinits)
	}
}
