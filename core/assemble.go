package core

// Assembler converts raw driver output into a fixed-layout SampleRecord,
// applying each channel's affine calibration. Pure: no state beyond the
// coefficients fixed at construction.
type Assembler struct {
	calib [MaxChannels]Affine
	n     uint8
}

// NewAssembler builds an assembler from the configured channel map.
func NewAssembler(channels []ChannelConfig) *Assembler {
	a := &Assembler{n: uint8(len(channels))}
	for i, ch := range channels {
		a.calib[i] = ch.Calib
	}
	return a
}

// Assemble produces the record for one tick. If any reading failed on the
// bus, the whole record is marked invalid: the host cannot tell "some
// channels stale" from "all channels stale", and stale-but-valid data is
// worse than an honest invalid flag. Raw values are still calibrated and
// carried so downstream counters see the tick.
func (a *Assembler) Assemble(raws []RawReading, tick, seq uint32) SampleRecord {
	rec := SampleRecord{
		Seq:   seq,
		Tick:  tick,
		Valid: true,
		N:     a.n,
	}
	for i, raw := range raws[:a.n] {
		rec.Values[i] = a.calib[i].Apply(raw.Value)
		if !raw.Ok() {
			rec.Valid = false
		}
	}
	return rec
}

// ChannelCount returns the number of configured channels.
func (a *Assembler) ChannelCount() int {
	return int(a.n)
}
