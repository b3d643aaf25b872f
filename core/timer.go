package core

// TimerFreq is the system tick rate. Targets feed a 1MHz hardware counter
// into SetTime, so one tick is one microsecond.
const TimerFreq = 1000000

// GetTime returns the current system time in timer ticks. The counter is
// 32 bits and wraps; compare times with timerBefore, never with <.
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (called by targets and tests).
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromUS converts microseconds to timer ticks.
func TimerFromUS(us uint32) uint32 {
	return us * (TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds.
func TimerToUS(ticks uint32) uint32 {
	return ticks / (TimerFreq / 1000000)
}

// timerBefore reports whether a is earlier than b on the wrapping clock.
func timerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
