package core

// SampleStore hands the latest complete SampleRecord from the acquisition
// task to the SPI responder without ever exposing a torn record and without
// making either side wait for the other.
//
// Three preallocated slots guarantee the writer always finds a slot that is
// neither the current ready slot nor held by the reader, so Publish never
// blocks even while a read is held across many ticks. All shared-index
// updates happen inside criticalSection; the record copy itself runs outside
// it, on a slot the writer owns exclusively while it is in slotWriting.
type SampleStore struct {
	cs      criticalSection
	slots   [storeSlots]sampleSlot
	ready   int8 // slot holding the freshest record, -1 until first publish
	reading int8 // slot held by the reader, -1 when none
}

const storeSlots = 3

type slotState uint8

const (
	slotEmpty slotState = iota
	slotWriting
	slotReady
	slotReading
)

type sampleSlot struct {
	state slotState
	rec   SampleRecord
}

// ReadHandle is a read-only view of one slot's record. Obtained from
// AcquireForRead, consumed by Release; the slot it names is not reused by
// the writer until released.
type ReadHandle struct {
	store *SampleStore
	idx   int8
}

// Record returns the held record. Valid only between acquire and release.
func (h ReadHandle) Record() *SampleRecord {
	return &h.store.slots[h.idx].rec
}

// NewSampleStore creates an empty store.
func NewSampleStore() *SampleStore {
	return &SampleStore{ready: -1, reading: -1}
}

// Publish places a new record in the store. Once Publish returns, any
// subsequent AcquireForRead sees this record or a later one. Never blocks.
func (s *SampleStore) Publish(rec *SampleRecord) {
	idx := s.beginWrite()
	s.slots[idx].rec = *rec
	s.commit(idx)
}

// beginWrite claims a slot that is neither ready nor being read.
func (s *SampleStore) beginWrite() int8 {
	state := s.cs.enter()
	var idx int8
	for idx = 0; idx < storeSlots; idx++ {
		if idx != s.ready && idx != s.reading {
			break
		}
	}
	s.slots[idx].state = slotWriting
	s.cs.exit(state)
	return idx
}

// commit publishes the written slot and retires the superseded one.
func (s *SampleStore) commit(idx int8) {
	state := s.cs.enter()
	if s.ready >= 0 && s.ready != s.reading {
		s.slots[s.ready].state = slotEmpty
	}
	s.slots[idx].state = slotReady
	s.ready = idx
	s.cs.exit(state)
}

// AcquireForRead marks the current ready slot as held by the reader and
// returns a handle to it. Returns false before the first publish. Repeated
// acquires without an intervening publish return the same record. The store
// supports one active reader; a second acquire before release returns the
// same slot again.
func (s *SampleStore) AcquireForRead() (ReadHandle, bool) {
	state := s.cs.enter()
	if s.ready < 0 {
		s.cs.exit(state)
		return ReadHandle{}, false
	}
	s.reading = s.ready
	s.slots[s.reading].state = slotReading
	h := ReadHandle{store: s, idx: s.reading}
	s.cs.exit(state)
	return h, true
}

// Release returns the slot to the writer's pool. If the slot is still the
// freshest it stays ready; otherwise it was superseded while held and
// becomes empty.
func (s *SampleStore) Release(h ReadHandle) {
	if h.store != s {
		return
	}
	state := s.cs.enter()
	if h.idx == s.reading {
		if h.idx == s.ready {
			s.slots[h.idx].state = slotReady
		} else {
			s.slots[h.idx].state = slotEmpty
		}
		s.reading = -1
	}
	s.cs.exit(state)
}
