package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/emukit/ps2ipc/ipc/common"
)

// The encoder writes directly into a caller-supplied byte region at a
// caller-supplied offset and returns the number of bytes consumed. It
// performs no I/O and has no side effects beyond the buffer write. All
// integers are little endian on the wire.

// EncodeRead encodes a read command for the given value width into
// buf at offset off and returns the encoded size.
//
// Layout: opcode(1) + address(4, LE).
func EncodeRead(buf []byte, off int, address uint32, width int) (int, error) {
	op, err := common.ReadOpcode(width)
	if err != nil {
		return 0, fmt.Errorf("%w: read of %d bytes", err, width)
	}
	if off+common.ReadCommandSize > len(buf) {
		return 0, fmt.Errorf("%w: %d byte read command at offset %d exceeds buffer of %d",
			common.ErrBatchTooLarge, common.ReadCommandSize, off, len(buf))
	}

	buf[off] = byte(op)
	binary.LittleEndian.PutUint32(buf[off+1:], address)
	return common.ReadCommandSize, nil
}

// EncodeWrite encodes a write command for the given value width into
// buf at offset off and returns the encoded size. Only the low width
// bytes of value end up on the wire.
//
// Layout: opcode(1) + address(4, LE) + value(width, LE).
func EncodeWrite(buf []byte, off int, address uint32, value uint64, width int) (int, error) {
	op, err := common.WriteOpcode(width)
	if err != nil {
		return 0, fmt.Errorf("%w: write of %d bytes", err, width)
	}
	size := common.WriteCommandSize(width)
	if off+size > len(buf) {
		return 0, fmt.Errorf("%w: %d byte write command at offset %d exceeds buffer of %d",
			common.ErrBatchTooLarge, size, off, len(buf))
	}

	buf[off] = byte(op)
	binary.LittleEndian.PutUint32(buf[off+1:], address)
	putValue(buf[off+1+common.AddressSize:], value, width)
	return size, nil
}

// EncodeBatchHeader writes the multi-command header into the first three
// bytes of buf. The command count is patched in later by PatchBatchCount.
func EncodeBatchHeader(buf []byte) int {
	buf[0] = byte(common.MsgMultiCommand)
	binary.LittleEndian.PutUint16(buf[1:], 0)
	return common.BatchHeaderSize
}

// PatchBatchCount writes the final command count into the reserved
// length field of an encoded multi-command message.
func PatchBatchCount(buf []byte, count int) {
	binary.LittleEndian.PutUint16(buf[1:], uint16(count))
}

// DecodeValue extracts a little endian value of the given width from
// buf at offset off.
func DecodeValue(buf []byte, off int, width int) (uint64, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("%w: value of %d bytes", common.ErrInvalidWidth, width)
	}
	if off < 0 || off+width > len(buf) {
		return 0, fmt.Errorf("%w: %d byte value at offset %d exceeds reply of %d",
			common.ErrUnknown, width, off, len(buf))
	}

	switch width {
	case 1:
		return uint64(buf[off]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[off:])), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[off:])), nil
	default:
		return binary.LittleEndian.Uint64(buf[off:]), nil
	}
}

// putValue writes the low width bytes of value in little endian order.
func putValue(buf []byte, value uint64, width int) {
	switch width {
	case 1:
		buf[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(value))
	case 8:
		binary.LittleEndian.PutUint64(buf, value)
	}
}
