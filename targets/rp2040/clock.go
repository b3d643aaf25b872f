//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"pfsfw/core"
)

// RP2040 timer peripheral memory map. The hardware timer is a 64-bit
// microsecond counter at 1MHz, matching core.TimerFreq.
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // raw timer high word
	timerTIMERAWL = timerBase + 0x0C // raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// GetHardwareTime reads the low 32 bits of the microsecond counter.
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// GetHardwareUptime reads the full 64-bit counter.
func GetHardwareUptime() uint64 {
	// Read high, low, high again to detect rollover during the read.
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// UpdateSystemTime feeds the hardware counter into the core timer. Called
// from the main loop every iteration.
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}
