//go:build tinygo

package core

import "runtime/interrupt"

// csToken is the saved interrupt state.
type csToken = interrupt.State

// criticalSection bounds the short index-swap sections of the sample store
// and timer queue by masking interrupts. Sections must stay a handful of
// loads and stores; nothing in here may block.
type criticalSection struct{}

func (c *criticalSection) enter() csToken {
	return interrupt.Disable()
}

func (c *criticalSection) exit(state csToken) {
	interrupt.Restore(state)
}
