//go:build rp2040

package main

import (
	"machine"
	"time"

	"pfsfw/core"
)

func main() {
	// Clear any watchdog state left over from a previous reset.
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	bus, err := initSensorBus()
	if err != nil {
		fatalBlink()
	}

	fw, err := core.NewFirmware(boardConfig(), core.NewI2CSensorBus(bus))
	if err != nil {
		fatalBlink()
	}

	slave := NewPIOSPISlave()
	core.SetSPISlaveDriver(slave)
	drv := core.MustSPISlave()
	if err := drv.Configure(core.SPISlaveConfig{
		Mode:     fw.Config.SPIMode,
		FrameLen: fw.Config.FrameLen(),
	}); err != nil {
		fatalBlink()
	}
	drv.SetHandler(fw.Responder)

	// Recalibrate by re-initializing the sensor bank; the parts rebaseline
	// their offsets during init.
	fw.SetRecalHandler(func() {
		_ = fw.Driver.Reinit()
	})

	// Last rung of the recovery ladder: a hardware watchdog reset. More
	// reliable on RP2040 than ARM SYSRESETREQ.
	fw.Watchdog.SetResetHandler(func() {
		if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1}); err != nil {
			return
		}
		if err := machine.Watchdog.Start(); err != nil {
			return
		}
		for {
			time.Sleep(time.Millisecond)
		}
	})

	UpdateSystemTime()
	fw.Start(core.GetTime())

	for {
		UpdateSystemTime()
		fw.Poll()
		slave.Service()

		// Yield to the scheduler; the tick cadence comes from the timer
		// queue, not from this loop.
		time.Sleep(10 * time.Microsecond)
	}
}

// fatalBlink signals an unrecoverable bring-up failure on the board LED.
// Nothing to report to: the SPI link carries frames, not logs.
func fatalBlink() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
