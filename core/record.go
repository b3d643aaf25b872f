package core

// MaxChannels bounds the per-record value array so records live in
// preallocated slots and never touch the allocator on the hot path.
const MaxChannels = 32

// ChannelID identifies one configured sensor channel.
type ChannelID uint8

// BusStatus tags a raw reading with the outcome of its bus transaction.
type BusStatus uint8

const (
	BusOK BusStatus = iota
	BusTimeout
	BusChecksumFail
)

// RawReading is one channel's unprocessed value. Produced by the sensor
// driver and consumed immediately by the assembler; never persisted.
type RawReading struct {
	Channel ChannelID
	Value   int32
	Status  BusStatus
}

// Ok reports whether the reading came back clean from the bus.
func (r RawReading) Ok() bool { return r.Status == BusOK }

// SampleRecord is one tick's fully assembled, calibrated sample set. A record
// is either fully populated and Valid, or published with Valid=false; partial
// records never exist. Immutable once published, superseded by the next tick.
type SampleRecord struct {
	Seq    uint32
	Tick   uint32
	Valid  bool
	N      uint8
	Values [MaxChannels]float32
}

// Payload returns the calibrated channel values.
func (r *SampleRecord) Payload() []float32 {
	return r.Values[:r.N]
}
