// Package codec implements the byte-exact command encoding of the IPC
// wire protocol.
//
// A read command is encoded as opcode(1) + address(4, LE), a write
// command as opcode(1) + address(4, LE) + value(width, LE). The opcode
// is deduced from the value width (1, 2, 4 or 8 bytes); any other width
// is rejected with common.ErrInvalidWidth before any encoding happens.
//
// The encoder never allocates: it writes into caller-supplied buffers at
// caller-supplied offsets, which is what allows the client to accumulate
// tens of thousands of commands into one preallocated scratch region.
package codec
