package core

import "pfsfw/protocol"

// ResponderStats are the responder's diagnostic counters.
type ResponderStats struct {
	Transactions  uint32
	StaleReserves uint32
	CmdErrors     uint32
}

// Responder serves one fixed-length wire frame per host transaction. On
// chip-select assert it acquires the freshest record from the store and
// serializes it into the outbound buffer; on deassert it releases the slot
// and applies any inbound command. The outbound buffer is never touched
// between start and end, so an in-flight transfer can never observe a
// mixed frame.
type Responder struct {
	store     *SampleStore
	onCommand func(op uint8)

	tx      []byte // outbound frame, always well-formed
	payload []byte // last valid payload bytes, repeated on invalid samples

	lastSeq uint32
	served  bool
	cmdErr  bool

	handle ReadHandle
	active bool

	stats ResponderStats
}

// NewResponder creates a responder for the configured channel count. The
// outbound buffer is primed with a not-ready sentinel so there is a
// well-formed frame to clock out from the very first transaction. onCommand
// receives decoded host commands strictly after the transaction ends.
func NewResponder(store *SampleStore, channels int, onCommand func(op uint8)) *Responder {
	r := &Responder{
		store:     store,
		onCommand: onCommand,
		tx:        make([]byte, protocol.FrameLen(channels)),
		payload:   make([]byte, channels*protocol.BytesPerChan),
	}
	// Encoding into a correctly sized buffer cannot fail.
	_ = protocol.EncodeFrame(r.tx, protocol.FrameNotReady, 0, 0, r.payload)
	return r
}

// OnTransactionStart implements TransactionHandler.
func (r *Responder) OnTransactionStart() []byte {
	r.stats.Transactions++

	h, ok := r.store.AcquireForRead()
	if !ok {
		// Nothing published yet: refresh the sentinel so flag bits stay
		// current, then serve it.
		_ = protocol.EncodeFrame(r.tx, protocol.FrameNotReady, r.takeFlags(), 0, r.payload)
		return r.tx
	}

	rec := h.Record()
	if r.served && int32(rec.Seq-r.lastSeq) < 0 {
		// A record older than one already served can only appear after a
		// store fault; re-serve the previous buffer unchanged.
		r.store.Release(h)
		r.stats.StaleReserves++
		return r.tx
	}

	r.handle = h
	r.active = true

	flags := r.takeFlags()
	if rec.Valid {
		_ = protocol.PutPayload(r.payload, rec.Payload())
	} else {
		// Repeat the last valid payload so the host can tell "no update"
		// from garbage; never zero it silently.
		flags |= protocol.FlagInvalid
	}
	_ = protocol.EncodeFrame(r.tx, protocol.FrameSample, flags, rec.Seq, r.payload)
	r.lastSeq = rec.Seq
	r.served = true
	return r.tx
}

// OnTransactionEnd implements TransactionHandler. Commands are applied here,
// never mid-transaction, so they cannot mutate state an in-flight frame
// depends on.
func (r *Responder) OnTransactionEnd(rx []byte) {
	if r.active {
		r.store.Release(r.handle)
		r.active = false
	}

	op, err := protocol.ParseCommand(rx)
	if err != nil {
		r.cmdErr = true
		r.stats.CmdErrors++
		return
	}
	if op != protocol.CmdNop && r.onCommand != nil {
		r.onCommand(op)
	}
}

// ResetSequence forgets the last served sequence number. Must be called
// whenever the acquisition task's numbering restarts, so post-reset records
// are served instead of being mistaken for stale ones.
func (r *Responder) ResetSequence() {
	r.served = false
	r.lastSeq = 0
}

// takeFlags consumes the pending command-error flag.
func (r *Responder) takeFlags() uint8 {
	if !r.cmdErr {
		return 0
	}
	r.cmdErr = false
	return protocol.FlagCmdError
}

// TxFrame returns the current outbound frame, for drivers that pre-load a
// DMA buffer between transactions.
func (r *Responder) TxFrame() []byte {
	return r.tx
}

// Stats returns a snapshot of the diagnostic counters.
func (r *Responder) Stats() ResponderStats {
	return r.stats
}
