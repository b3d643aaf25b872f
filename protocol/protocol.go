// Package protocol implements the fingertip sensor wire format.
//
// Every SPI transaction exchanges exactly one fixed-length frame. The frame
// length is a build-time constant derived from the configured channel count,
// so the host clocks the same number of bytes per transaction regardless of
// payload validity.
package protocol

// Version identifies the wire format revision carried in every frame header.
const Version = 0x01

// Frame types (low nibble of the type byte).
const (
	FrameSample   = 0x01 // payload carries calibrated channel values
	FrameNotReady = 0x02 // sentinel served before the first sample exists
)

// Frame flags (high nibble of the type byte).
const (
	FlagInvalid  = 0x80 // sample invalid; payload repeats the last valid payload
	FlagCmdError = 0x40 // previous inbound command block was malformed
)

const (
	frameTypeMask  = 0x0F
	frameFlagsMask = 0xF0
)

// Fixed frame geometry. The payload is one IEEE-754 float32 in little-endian
// byte order per channel.
const (
	HeaderLen    = 6 // version (1) + type (1) + sequence (4, LE)
	TrailerLen   = 2 // CRC16, big-endian
	BytesPerChan = 4
)

// FrameLen returns the constant frame length for a channel count.
func FrameLen(channels int) int {
	return HeaderLen + channels*BytesPerChan + TrailerLen
}
