package pfs

import (
	"testing"

	"go.uber.org/zap"

	"pfsfw/protocol"
)

const testChannels = 4

func buildFrame(t *testing.T, typ, flags uint8, seq uint32, values []float32) []byte {
	t.Helper()
	payload := make([]byte, len(values)*protocol.BytesPerChan)
	if err := protocol.PutPayload(payload, values); err != nil {
		t.Fatalf("PutPayload: %v", err)
	}
	frame := make([]byte, protocol.FrameLen(len(values)))
	if err := protocol.EncodeFrame(frame, typ, flags, seq, payload); err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	return frame
}

func newTestClient(t *testing.T) (*Client, *[]Sample) {
	t.Helper()
	c := NewClient(nil, testChannels, zap.NewNop())
	samples := &[]Sample{}
	c.OnSample(func(s Sample) {
		*samples = append(*samples, s)
	})
	return c, samples
}

func TestClientDecodesStream(t *testing.T) {
	c, samples := newTestClient(t)

	for seq := uint32(1); seq <= 3; seq++ {
		vals := []float32{float32(seq), 2, 3, 4}
		c.feed(buildFrame(t, protocol.FrameSample, 0, seq, vals))
	}

	if len(*samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(*samples))
	}
	for i, s := range *samples {
		if s.Seq != uint32(i+1) {
			t.Errorf("sample %d has seq %d", i, s.Seq)
		}
		if !s.Valid || s.Stale {
			t.Errorf("sample %d flags: valid=%v stale=%v", i, s.Valid, s.Stale)
		}
		if s.Values[0] != float32(i+1) {
			t.Errorf("sample %d value %v", i, s.Values[0])
		}
	}
}

func TestClientSplitReads(t *testing.T) {
	c, samples := newTestClient(t)

	frame := buildFrame(t, protocol.FrameSample, 0, 7, []float32{1, 2, 3, 4})
	// Deliver one byte at a time, as a slow serial link would.
	for _, b := range frame {
		c.feed([]byte{b})
	}

	if len(*samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(*samples))
	}
	if (*samples)[0].Seq != 7 {
		t.Errorf("seq = %d, want 7", (*samples)[0].Seq)
	}
}

func TestClientResyncsAfterGarbage(t *testing.T) {
	c, samples := newTestClient(t)

	frame := buildFrame(t, protocol.FrameSample, 0, 1, []float32{1, 2, 3, 4})
	stream := append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, frame...)
	c.feed(stream)

	if len(*samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(*samples))
	}
	if c.Stats().Resyncs != 4 {
		t.Errorf("resyncs = %d, want 4", c.Stats().Resyncs)
	}
}

func TestClientTruncatedFrameRecovers(t *testing.T) {
	c, samples := newTestClient(t)

	good := buildFrame(t, protocol.FrameSample, 0, 5, []float32{1, 2, 3, 4})
	// First frame is cut short mid-stream, the next arrives intact.
	c.feed(good[:len(good)-3])
	c.feed(buildFrame(t, protocol.FrameSample, 0, 6, []float32{5, 6, 7, 8}))

	if len(*samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(*samples))
	}
	if (*samples)[0].Seq != 6 {
		t.Errorf("seq = %d, want 6", (*samples)[0].Seq)
	}
	if c.Stats().Resyncs == 0 {
		t.Error("expected resync events")
	}
}

func TestClientFlagsStaleRepeat(t *testing.T) {
	c, samples := newTestClient(t)

	frame := buildFrame(t, protocol.FrameSample, 0, 9, []float32{1, 2, 3, 4})
	c.feed(frame)
	c.feed(frame)

	if len(*samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(*samples))
	}
	if (*samples)[0].Stale {
		t.Error("first sample flagged stale")
	}
	if !(*samples)[1].Stale {
		t.Error("repeated sample not flagged stale")
	}
	if c.Stats().Stale != 1 {
		t.Errorf("stale count = %d, want 1", c.Stats().Stale)
	}
}

func TestClientDetectsSequenceReset(t *testing.T) {
	c, _ := newTestClient(t)

	c.feed(buildFrame(t, protocol.FrameSample, 0, 500, []float32{1, 2, 3, 4}))
	c.feed(buildFrame(t, protocol.FrameSample, 0, 1, []float32{1, 2, 3, 4}))

	if c.Stats().DeviceBoots != 1 {
		t.Errorf("device boots = %d, want 1", c.Stats().DeviceBoots)
	}
}

func TestClientSkipsNotReadyFrames(t *testing.T) {
	c, samples := newTestClient(t)

	c.feed(buildFrame(t, protocol.FrameNotReady, 0, 0, make([]float32, testChannels)))
	c.feed(buildFrame(t, protocol.FrameSample, 0, 1, []float32{1, 2, 3, 4}))

	if len(*samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(*samples))
	}
	if c.Stats().Frames != 2 {
		t.Errorf("frame count = %d, want 2", c.Stats().Frames)
	}
}

func TestClientSurfacesDeviceFlags(t *testing.T) {
	c, samples := newTestClient(t)

	c.feed(buildFrame(t, protocol.FrameSample,
		protocol.FlagInvalid|protocol.FlagCmdError, 3, []float32{1, 2, 3, 4}))

	if len(*samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(*samples))
	}
	s := (*samples)[0]
	if s.Valid {
		t.Error("invalid frame reported valid")
	}
	if !s.CmdError {
		t.Error("command error flag lost")
	}
	st := c.Stats()
	if st.Invalid != 1 || st.CmdErrors != 1 {
		t.Errorf("stats = %+v", st)
	}
}
