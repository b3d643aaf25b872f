//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers"
)

// Sensor bus pins (I2C0).
const (
	sensorSDA = machine.GPIO4
	sensorSCL = machine.GPIO5
)

// initSensorBus configures the I2C controller the sensor boards hang off.
// The controller's own transaction timeout bounds every read, which is what
// keeps sensor driver latency inside the tick budget.
func initSensorBus() (drivers.I2C, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       sensorSDA,
		SCL:       sensorSCL,
	})
	if err != nil {
		return nil, err
	}
	return machine.I2C0, nil
}
