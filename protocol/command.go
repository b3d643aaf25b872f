package protocol

import "errors"

// Inbound host commands. The host may clock a one-byte opcode in during a
// transaction; the device applies it strictly after the transaction ends.
// All bytes after the opcode must be PadByte (the idle bus pattern).
const (
	CmdNop      = 0x00 // no effect
	CmdRecal    = 0x01 // re-apply calibration baselines
	CmdSeqReset = 0x02 // restart sequence numbering from zero
)

// PadByte is what an idle SPI master shifts out; a block of all-pad bytes
// carries no command.
const PadByte = 0xFF

var ErrMalformedCommand = errors.New("malformed inbound command")

// ParseCommand extracts the command opcode from an inbound byte block.
// An empty or all-pad block is a no-op. Anything other than one known opcode
// followed by pad bytes is malformed; the caller discards it and may flag
// FlagCmdError in the next outbound frame.
func ParseCommand(raw []byte) (uint8, error) {
	i := 0
	for i < len(raw) && raw[i] == PadByte {
		i++
	}
	if i == len(raw) {
		return CmdNop, nil
	}
	op := raw[i]
	switch op {
	case CmdNop, CmdRecal, CmdSeqReset:
	default:
		return CmdNop, ErrMalformedCommand
	}
	for _, b := range raw[i+1:] {
		if b != PadByte {
			return CmdNop, ErrMalformedCommand
		}
	}
	return op, nil
}
