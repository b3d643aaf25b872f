//go:build rp2040

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"pfsfw/core"
)

// SPI slave port pins. The host robot controller drives SCK and CS; the
// RP2040 has no hardware SPI slave worth the name, so two PIO state machines
// do the shifting: one clocks frame bytes out on MISO, one samples MOSI.
const (
	spiSCK  = machine.GPIO10
	spiMOSI = machine.GPIO11
	spiMISO = machine.GPIO12
	spiCS   = machine.GPIO13
)

// buildTxProgram returns the MISO shifter for SPI mode 0: present the next
// OSR bit while SCK is low, hold it through the rising edge. Autopull
// refills the OSR every 8 bits. Raw encodings because the instructions embed
// the SCK GPIO number.
func buildTxProgram(sck machine.Pin) []uint16 {
	return []uint16{
		0x6001,                  // 0: out pins, 1
		0x2080 | uint16(sck)&31, // 1: wait 1 gpio SCK
		0x2000 | uint16(sck)&31, // 2: wait 0 gpio SCK
	}
}

// buildRxProgram returns the MOSI sampler: sample on the SCK rising edge,
// autopush every 8 bits.
func buildRxProgram(sck machine.Pin) []uint16 {
	return []uint16{
		0x2080 | uint16(sck)&31, // 0: wait 1 gpio SCK
		0x4001,                  // 1: in pins, 1
		0x2000 | uint16(sck)&31, // 2: wait 0 gpio SCK
	}
}

const slavePIOOrigin = 0

// PIOSPISlave implements core.SPISlaveDriver on two PIO state machines. The
// chip-select edge interrupt brackets each transaction; the main loop's
// Service call keeps the FIFOs fed and drained in between.
type PIOSPISlave struct {
	pio  *rp2pio.PIO
	txSM rp2pio.StateMachine
	rxSM rp2pio.StateMachine

	handler core.TransactionHandler

	frame    []byte // outbound frame for the in-flight transaction
	txPos    int
	rx       [128]byte
	rxLen    int
	inflight bool
}

// NewPIOSPISlave creates the slave port on PIO0, state machines 0 and 1.
func NewPIOSPISlave() *PIOSPISlave {
	p := rp2pio.PIO0
	return &PIOSPISlave{
		pio:  p,
		txSM: p.StateMachine(0),
		rxSM: p.StateMachine(1),
	}
}

// Configure implements core.SPISlaveDriver. Only mode 0 wiring is built;
// the configuration surface still carries the mode so a board spin with a
// different host polarity changes one constant.
func (s *PIOSPISlave) Configure(cfg core.SPISlaveConfig) error {
	s.txSM.TryClaim()
	s.rxSM.TryClaim()

	txProg := buildTxProgram(spiSCK)
	txOff, err := s.pio.AddProgram(txProg, slavePIOOrigin)
	if err != nil {
		return err
	}
	rxProg := buildRxProgram(spiSCK)
	rxOff, err := s.pio.AddProgram(rxProg, slavePIOOrigin+uint8(len(txProg)))
	if err != nil {
		return err
	}

	spiMISO.Configure(machine.PinConfig{Mode: s.pio.PinMode()})
	spiSCK.Configure(machine.PinConfig{Mode: machine.PinInput})
	spiMOSI.Configure(machine.PinConfig{Mode: machine.PinInput})

	txCfg := rp2pio.DefaultStateMachineConfig()
	txCfg.SetOutPins(spiMISO, 1)
	// MSB first: shift left, autopull every 8 bits.
	txCfg.SetOutShift(false, true, 8)
	txCfg.SetWrap(txOff+uint8(len(txProg))-1, txOff)
	txCfg.SetClkDivIntFrac(1, 0)
	s.txSM.Init(txOff, txCfg)
	s.txSM.SetPindirsConsecutive(spiMISO, 1, true)

	rxCfg := rp2pio.DefaultStateMachineConfig()
	rxCfg.SetInPins(spiMOSI)
	// MSB first: shift left, autopush every 8 bits.
	rxCfg.SetInShift(false, true, 8)
	rxCfg.SetWrap(rxOff+uint8(len(rxProg))-1, rxOff)
	rxCfg.SetClkDivIntFrac(1, 0)
	s.rxSM.Init(rxOff, rxCfg)

	s.txSM.SetEnabled(true)
	s.rxSM.SetEnabled(true)

	// Transaction bracketing off the chip-select edges.
	spiCS.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return spiCS.SetInterrupt(machine.PinRising|machine.PinFalling, s.csEdge)
}

// SetHandler implements core.SPISlaveDriver.
func (s *PIOSPISlave) SetHandler(h core.TransactionHandler) {
	s.handler = h
}

// csEdge brackets the transaction. CS is active low: the falling edge loads
// the freshest frame, the rising edge hands the clocked-in bytes up.
func (s *PIOSPISlave) csEdge(pin machine.Pin) {
	if s.handler == nil {
		return
	}
	if !pin.Get() {
		s.beginTransaction()
	} else {
		s.endTransaction()
	}
}

func (s *PIOSPISlave) beginTransaction() {
	s.frame = s.handler.OnTransactionStart()
	s.txPos = 0
	s.rxLen = 0

	s.txSM.ClearFIFOs()
	s.rxSM.ClearFIFOs()
	s.txSM.Restart()
	s.rxSM.Restart()

	s.fillTx()
	s.inflight = true
}

func (s *PIOSPISlave) endTransaction() {
	s.inflight = false
	s.drainRx()
	s.handler.OnTransactionEnd(s.rx[:s.rxLen])
}

// Service keeps the FIFOs moving during a transaction. Called from the main
// loop; cheap when idle.
func (s *PIOSPISlave) Service() {
	if !s.inflight {
		return
	}
	s.fillTx()
	s.drainRx()
}

func (s *PIOSPISlave) fillTx() {
	for s.txPos < len(s.frame) && !s.txSM.IsTxFIFOFull() {
		// Shift-left OSR takes its bits from the top.
		s.txSM.TxPut(uint32(s.frame[s.txPos]) << 24)
		s.txPos++
	}
}

func (s *PIOSPISlave) drainRx() {
	for !s.rxSM.IsRxFIFOEmpty() && s.rxLen < len(s.rx) {
		s.rx[s.rxLen] = uint8(s.rxSM.RxGet())
		s.rxLen++
	}
}
