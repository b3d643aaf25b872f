package protocol

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	ErrShortFrame  = errors.New("frame buffer too short")
	ErrBadVersion  = errors.New("unsupported frame version")
	ErrBadCRC      = errors.New("frame CRC mismatch")
	ErrBadType     = errors.New("unknown frame type")
	ErrPayloadSize = errors.New("payload does not match frame length")
)

// Frame is a decoded wire frame, as reconstructed on the host side.
type Frame struct {
	Version uint8
	Type    uint8 // FrameSample or FrameNotReady, flags stripped
	Flags   uint8
	Seq     uint32
	Values  []float32
}

// Invalid reports whether the sample was flagged invalid by the device.
func (f *Frame) Invalid() bool { return f.Flags&FlagInvalid != 0 }

// CmdError reports whether the device rejected the previous inbound command.
func (f *Frame) CmdError() bool { return f.Flags&FlagCmdError != 0 }

// PutPayload serializes channel values into dst, which must hold exactly
// len(values)*BytesPerChan bytes.
func PutPayload(dst []byte, values []float32) error {
	if len(dst) != len(values)*BytesPerChan {
		return ErrPayloadSize
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[i*BytesPerChan:], math.Float32bits(v))
	}
	return nil
}

// EncodeFrame serializes a complete frame into dst. The payload is copied
// verbatim so the caller can repeat a previous payload byte-exactly. dst must
// be exactly HeaderLen+len(payload)+TrailerLen bytes; nothing is allocated.
func EncodeFrame(dst []byte, typ, flags uint8, seq uint32, payload []byte) error {
	if len(dst) != HeaderLen+len(payload)+TrailerLen {
		return ErrShortFrame
	}
	dst[0] = Version
	dst[1] = (typ & frameTypeMask) | (flags & frameFlagsMask)
	binary.LittleEndian.PutUint32(dst[2:6], seq)
	copy(dst[HeaderLen:], payload)

	crc := CRC16(dst[:len(dst)-TrailerLen])
	dst[len(dst)-2] = uint8(crc >> 8)
	dst[len(dst)-1] = uint8(crc)
	return nil
}

// DecodeFrame parses and verifies one frame. The Values slice is freshly
// allocated; buf is not retained.
func DecodeFrame(buf []byte) (Frame, error) {
	var f Frame
	if len(buf) < FrameLen(0) {
		return f, ErrShortFrame
	}
	crc := uint16(buf[len(buf)-2])<<8 | uint16(buf[len(buf)-1])
	if crc != CRC16(buf[:len(buf)-TrailerLen]) {
		return f, ErrBadCRC
	}
	if buf[0] != Version {
		return f, ErrBadVersion
	}
	typ := buf[1] & frameTypeMask
	if typ != FrameSample && typ != FrameNotReady {
		return f, ErrBadType
	}
	payload := buf[HeaderLen : len(buf)-TrailerLen]
	if len(payload)%BytesPerChan != 0 {
		return f, ErrPayloadSize
	}

	f.Version = buf[0]
	f.Type = typ
	f.Flags = buf[1] & frameFlagsMask
	f.Seq = binary.LittleEndian.Uint32(buf[2:6])
	f.Values = make([]float32, len(payload)/BytesPerChan)
	for i := range f.Values {
		bits := binary.LittleEndian.Uint32(payload[i*BytesPerChan:])
		f.Values[i] = math.Float32frombits(bits)
	}
	return f, nil
}
