package common

// --------------------------------------------------------------------------
// Opcode Definition
// --------------------------------------------------------------------------

// Opcode is the one-byte tag identifying which operation a command encodes.
// It is the first byte of every command sent to the relay endpoint.
type Opcode uint8

const (
	// Memory read operations

	MsgRead8  Opcode = 0 // Read an 8 bit value from memory
	MsgRead16 Opcode = 1 // Read a 16 bit value from memory
	MsgRead32 Opcode = 2 // Read a 32 bit value from memory
	MsgRead64 Opcode = 3 // Read a 64 bit value from memory

	// Memory write operations

	MsgWrite8  Opcode = 4 // Write an 8 bit value to memory
	MsgWrite16 Opcode = 5 // Write a 16 bit value to memory
	MsgWrite32 Opcode = 6 // Write a 32 bit value to memory
	MsgWrite64 Opcode = 7 // Write a 64 bit value to memory

	// MsgMultiCommand aggregates multiple commands in one message
	MsgMultiCommand Opcode = 0xFF
)

// String returns the string representation of an Opcode.
func (o Opcode) String() string {
	switch o {
	case MsgRead8:
		return "read8"
	case MsgRead16:
		return "read16"
	case MsgRead32:
		return "read32"
	case MsgRead64:
		return "read64"
	case MsgWrite8:
		return "write8"
	case MsgWrite16:
		return "write16"
	case MsgWrite32:
		return "write32"
	case MsgWrite64:
		return "write64"
	case MsgMultiCommand:
		return "multicommand"
	default:
		return "unknown"
	}
}

// IsRead reports whether the opcode is one of the read operations.
func (o Opcode) IsRead() bool {
	return o <= MsgRead64
}

// IsWrite reports whether the opcode is one of the write operations.
func (o Opcode) IsWrite() bool {
	return o >= MsgWrite8 && o <= MsgWrite64
}

// ReadOpcode returns the read opcode for a value width in bytes.
// Only widths of 1, 2, 4 and 8 bytes exist on the wire.
func ReadOpcode(width int) (Opcode, error) {
	switch width {
	case 1:
		return MsgRead8, nil
	case 2:
		return MsgRead16, nil
	case 4:
		return MsgRead32, nil
	case 8:
		return MsgRead64, nil
	default:
		return 0, ErrInvalidWidth
	}
}

// WriteOpcode returns the write opcode for a value width in bytes.
func WriteOpcode(width int) (Opcode, error) {
	switch width {
	case 1:
		return MsgWrite8, nil
	case 2:
		return MsgWrite16, nil
	case 4:
		return MsgWrite32, nil
	case 8:
		return MsgWrite64, nil
	default:
		return 0, ErrInvalidWidth
	}
}

// Width returns the value width in bytes carried by a read or write opcode.
func (o Opcode) Width() int {
	switch o {
	case MsgRead8, MsgWrite8:
		return 1
	case MsgRead16, MsgWrite16:
		return 2
	case MsgRead32, MsgWrite32:
		return 4
	case MsgRead64, MsgWrite64:
		return 8
	default:
		return 0
	}
}

// --------------------------------------------------------------------------
// Status Codes
// --------------------------------------------------------------------------

// Status is the one-byte result code leading every reply.
type Status uint8

const (
	StatusOK   Status = 0x00 // Command successfully completed
	StatusFail Status = 0xFF // Command failed to complete
)

// --------------------------------------------------------------------------
// Wire Layout Constants
// --------------------------------------------------------------------------

const (
	// AddressSize is the number of bytes an address occupies on the wire
	AddressSize = 4

	// ReadCommandSize is the encoded size of any read command (opcode + address)
	ReadCommandSize = 1 + AddressSize

	// BatchHeaderSize is the size of the multi-command header
	// (opcode + 2 byte command count)
	BatchHeaderSize = 3

	// MaxWriteCommandSize is the encoded size of the largest command,
	// a 64 bit write (opcode + address + value)
	MaxWriteCommandSize = ReadCommandSize + 8

	// MaxReplySlotSize bounds the reply bytes one batched command can
	// occupy. A 64 bit read needs 8, the extra byte keeps the reply
	// scratch sized like the original client's 450k region.
	MaxReplySlotSize = 9
)

// WriteCommandSize returns the encoded size of a write command for a width.
func WriteCommandSize(width int) int {
	return ReadCommandSize + width
}
