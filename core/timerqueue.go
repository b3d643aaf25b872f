package core

// Timer represents a scheduled event.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

// Handler return values.
const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// TimerQueue holds pending timers sorted by wake time. Each firmware
// instance owns one queue; the target's main loop drives it with Dispatch.
type TimerQueue struct {
	cs   criticalSection
	head *Timer
}

// NewTimerQueue creates an empty timer queue.
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{}
}

// Schedule adds a timer to the queue.
func (q *TimerQueue) Schedule(t *Timer) {
	state := q.cs.enter()
	q.insert(t)
	q.cs.exit(state)
}

// insert places a timer in wake-time order. Caller holds the critical section.
func (q *TimerQueue) insert(t *Timer) {
	if q.head == nil || timerBefore(t.WakeTime, q.head.WakeTime) {
		t.Next = q.head
		q.head = t
		return
	}

	current := q.head
	for current.Next != nil && timerBefore(current.Next.WakeTime, t.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// Dispatch runs all timers due at now. Handlers run outside the critical
// section so they may schedule further timers; a handler returning
// SF_RESCHEDULE with an updated WakeTime is re-queued.
func (q *TimerQueue) Dispatch(now uint32) {
	for {
		state := q.cs.enter()
		timer := q.head
		if timer == nil || timerBefore(now, timer.WakeTime) {
			q.cs.exit(state)
			return
		}
		q.head = timer.Next
		timer.Next = nil
		q.cs.exit(state)

		if timer.Handler(timer) == SF_RESCHEDULE {
			q.Schedule(timer)
		}
	}
}

// NextWake returns the earliest pending wake time, or false if the queue is
// empty.
func (q *TimerQueue) NextWake() (uint32, bool) {
	state := q.cs.enter()
	defer q.cs.exit(state)
	if q.head == nil {
		return 0, false
	}
	return q.head.WakeTime, true
}
