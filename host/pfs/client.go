// Package pfs reads the fingertip sensor frame stream over a serial
// bridge and republishes it as decoded samples.
package pfs

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"pfsfw/host/serial"
	"pfsfw/protocol"
)

// Sample is one decoded frame from the device.
type Sample struct {
	// Seq is the device sequence number.
	Seq uint32

	// Valid reports whether the device marked this acquisition good.
	// When false, Values carries the last valid payload.
	Valid bool

	// CmdError reports that the device rejected a command since the
	// previous frame.
	CmdError bool

	// Stale reports that the device re-served a frame it had already
	// sent (same sequence number as the previous one).
	Stale bool

	// Values are the calibrated channel values.
	Values []float32

	// Received is the host receive time.
	Received time.Time
}

// Stats counts stream health events on the host side.
type Stats struct {
	Frames      uint64
	Resyncs     uint64
	Stale       uint64
	Invalid     uint64
	CmdErrors   uint64
	DeviceBoots uint64
}

// Client decodes the fixed-length frame stream from a serial port.
type Client struct {
	port     serial.Port
	log      *zap.Logger
	frameLen int

	buf      *protocol.FifoBuffer
	scratch  []byte
	lastSeq  uint32
	haveSeq  bool
	onSample func(Sample)
	stats    Stats
}

// NewClient returns a client decoding frames of the given channel count.
func NewClient(port serial.Port, channels int, log *zap.Logger) *Client {
	frameLen := protocol.FrameLen(channels)
	return &Client{
		port:     port,
		log:      log,
		frameLen: frameLen,
		buf:      protocol.NewFifoBuffer(16 * frameLen),
		scratch:  make([]byte, 256),
	}
}

// OnSample registers the callback invoked for each decoded sample frame.
// Not-ready frames are counted but not delivered.
func (c *Client) OnSample(fn func(Sample)) {
	c.onSample = fn
}

// Stats returns a copy of the stream counters.
func (c *Client) Stats() Stats {
	return c.stats
}

// SendCommand writes a single command opcode to the device. The device
// applies it after its current transaction.
func (c *Client) SendCommand(op uint8) error {
	_, err := c.port.Write([]byte{op})
	return err
}

// Run reads from the port until ctx is cancelled or the port fails.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := c.port.Read(c.scratch)
		if n > 0 {
			c.feed(c.scratch[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			c.log.Debug("serial read", zap.Error(err))
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// feed appends raw bytes and extracts every complete frame.
func (c *Client) feed(data []byte) {
	c.buf.Write(data)

	for c.buf.Available() >= c.frameLen {
		window := c.buf.Data()
		decoded, err := protocol.DecodeFrame(window[:c.frameLen])
		if err != nil {
			// Discard one byte and retry on the next alignment.
			c.buf.Pop(1)
			c.stats.Resyncs++
			continue
		}
		c.buf.Pop(c.frameLen)
		c.handleFrame(decoded)
	}
}

func (c *Client) handleFrame(f protocol.Frame) {
	c.stats.Frames++

	if f.Type == protocol.FrameNotReady {
		c.log.Debug("device not ready", zap.Uint32("seq", f.Seq))
		return
	}

	s := Sample{
		Seq:      f.Seq,
		Valid:    !f.Invalid(),
		CmdError: f.CmdError(),
		Values:   f.Values,
		Received: time.Now(),
	}

	if c.haveSeq {
		diff := int32(f.Seq - c.lastSeq)
		switch {
		case diff == 0:
			s.Stale = true
			c.stats.Stale++
		case diff < 0:
			// Sequence went backwards, the device restarted or was
			// told to reset its counter.
			c.stats.DeviceBoots++
			c.log.Warn("device sequence reset",
				zap.Uint32("prev", c.lastSeq),
				zap.Uint32("seq", f.Seq))
		case diff > 1:
			c.log.Debug("skipped frames",
				zap.Int32("gap", diff-1),
				zap.Uint32("seq", f.Seq))
		}
	}
	c.lastSeq = f.Seq
	c.haveSeq = true

	if !s.Valid {
		c.stats.Invalid++
	}
	if s.CmdError {
		c.stats.CmdErrors++
		c.log.Warn("device rejected command", zap.Uint32("seq", f.Seq))
	}

	if c.onSample != nil {
		c.onSample(s)
	}
}

// PackLE serializes values as little-endian float32s, matching the wire
// payload layout. Useful for republishing over other transports.
func PackLE(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
