//go:build !tinygo

package core

import "sync"

// csToken carries the saved interrupt state on the MCU; unused here.
type csToken uintptr

// criticalSection bounds the short index-swap sections of the sample store
// and timer queue. On host Go a mutex provides the exclusion that interrupt
// masking provides on the MCU; the sections stay a handful of loads and
// stores either way.
type criticalSection struct {
	mu sync.Mutex
}

func (c *criticalSection) enter() csToken {
	c.mu.Lock()
	return 0
}

func (c *criticalSection) exit(csToken) {
	c.mu.Unlock()
}
