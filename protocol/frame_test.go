package protocol

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	values := []float32{1.5, -2.25, 0, 1000.125}
	payload := make([]byte, len(values)*BytesPerChan)
	if err := PutPayload(payload, values); err != nil {
		t.Fatalf("PutPayload failed: %v", err)
	}

	buf := make([]byte, FrameLen(len(values)))
	if err := EncodeFrame(buf, FrameSample, FlagCmdError, 0xDEADBEEF, payload); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	f, err := DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if f.Type != FrameSample {
		t.Errorf("Type = %#x, want FrameSample", f.Type)
	}
	if f.Seq != 0xDEADBEEF {
		t.Errorf("Seq = %#x, want 0xDEADBEEF", f.Seq)
	}
	if f.Invalid() {
		t.Error("Invalid() = true, want false")
	}
	if !f.CmdError() {
		t.Error("CmdError() = false, want true")
	}
	for i, v := range values {
		if f.Values[i] != v {
			t.Errorf("Values[%d] = %v, want %v", i, f.Values[i], v)
		}
	}
}

func TestFrameLengthConstant(t *testing.T) {
	// The host clocks a fixed byte count per transaction, so sample and
	// sentinel frames must encode to the same length.
	const channels = 7
	payload := make([]byte, channels*BytesPerChan)

	sample := make([]byte, FrameLen(channels))
	if err := EncodeFrame(sample, FrameSample, 0, 1, payload); err != nil {
		t.Fatalf("sample encode failed: %v", err)
	}
	sentinel := make([]byte, FrameLen(channels))
	if err := EncodeFrame(sentinel, FrameNotReady, 0, 0, payload); err != nil {
		t.Fatalf("sentinel encode failed: %v", err)
	}
	if len(sample) != len(sentinel) {
		t.Errorf("frame lengths differ: %d vs %d", len(sample), len(sentinel))
	}
}

func TestInvalidFlagRepeatsPayload(t *testing.T) {
	// An invalid-flagged frame must carry the previous payload byte-exactly.
	prev := []byte{0x11, 0x22, 0x33, 0x44}
	buf := make([]byte, FrameLen(1))
	if err := EncodeFrame(buf, FrameSample, FlagInvalid, 9, prev); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	if !bytes.Equal(buf[HeaderLen:len(buf)-TrailerLen], prev) {
		t.Errorf("payload not repeated byte-exactly: %x", buf[HeaderLen:len(buf)-TrailerLen])
	}
	f, err := DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if !f.Invalid() {
		t.Error("Invalid() = false, want true")
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	payload := make([]byte, 2*BytesPerChan)
	buf := make([]byte, FrameLen(2))
	if err := EncodeFrame(buf, FrameSample, 0, 42, payload); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	flipped := make([]byte, len(buf))
	copy(flipped, buf)
	flipped[HeaderLen] ^= 0x01
	if _, err := DecodeFrame(flipped); err != ErrBadCRC {
		t.Errorf("corrupted payload: err = %v, want ErrBadCRC", err)
	}

	if _, err := DecodeFrame(buf[:4]); err != ErrShortFrame {
		t.Errorf("short buffer: err = %v, want ErrShortFrame", err)
	}

	badVer := make([]byte, len(buf))
	copy(badVer, buf)
	badVer[0] = 0x7F
	// Re-seal so only the version check can fire.
	crc := CRC16(badVer[:len(badVer)-TrailerLen])
	badVer[len(badVer)-2] = uint8(crc >> 8)
	badVer[len(badVer)-1] = uint8(crc)
	if _, err := DecodeFrame(badVer); err != ErrBadVersion {
		t.Errorf("bad version: err = %v, want ErrBadVersion", err)
	}
}

func TestEncodeFrameLengthCheck(t *testing.T) {
	payload := make([]byte, BytesPerChan)
	short := make([]byte, FrameLen(1)-1)
	if err := EncodeFrame(short, FrameSample, 0, 0, payload); err != ErrShortFrame {
		t.Errorf("err = %v, want ErrShortFrame", err)
	}
	if err := PutPayload(make([]byte, 3), []float32{1}); err != ErrPayloadSize {
		t.Errorf("err = %v, want ErrPayloadSize", err)
	}
}
