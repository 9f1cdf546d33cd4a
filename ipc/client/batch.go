package client

import (
	"context"
	"fmt"

	"github.com/emukit/ps2ipc/ipc/codec"
	"github.com/emukit/ps2ipc/ipc/common"
)

// Batch accumulates commands into the client's shared request scratch
// buffer. It exists only between InitializeBatch and Finalize; while it
// does, the client's buffers belong to it exclusively and every single
// Read/Write on the client blocks.
type Batch struct {
	c *Client

	reqLen   int // current write offset into the request scratch
	replyLen int // expected reply length accumulated so far
	count    int // commands appended
	done     bool
}

// BatchCommand is a finalized batch. Both buffers and the offsets slice
// are independent copies owned by the caller: send Request through
// Send, receive into Reply, locate each command's reply bytes through
// ReplyOffsets. The client's scratch buffers are free for reuse the
// moment Finalize returns.
type BatchCommand struct {
	// Request is the complete encoded multi-command message
	Request []byte

	// Reply is sized to the expected reply length and filled by Send
	Reply []byte

	// ReplyOffsets holds, per appended command, the offset of its
	// reply bytes within Reply. Reads occupy their value width there,
	// writes one status byte.
	ReplyOffsets []uint32
}

// InitializeBatch opens a batch. It blocks until any prior batch has
// been finalized and any in-flight single command has released the
// shared buffers, then writes the multi-command header into the
// request scratch.
//
// Batching amortizes the per-call round trip: thousands of writes sent
// as one message cost about as much as one single read. The price is
// error granularity, a batch reports one aggregate status.
func (c *Client) InitializeBatch() *Batch {
	c.batchMu.Lock()
	c.ipcMu.Lock()

	codec.EncodeBatchHeader(c.reqBuf)
	return &Batch{
		c:        c,
		reqLen:   common.BatchHeaderSize,
		replyLen: 1, // the aggregate status byte
	}
}

// --------------------------------------------------------------------------
// Batch append operations (no I/O happens here)
// --------------------------------------------------------------------------

// Read8 appends an 8 bit read to the batch.
func (b *Batch) Read8(address uint32) error { return b.appendRead(address, 1) }

// Read16 appends a 16 bit read to the batch.
func (b *Batch) Read16(address uint32) error { return b.appendRead(address, 2) }

// Read32 appends a 32 bit read to the batch.
func (b *Batch) Read32(address uint32) error { return b.appendRead(address, 4) }

// Read64 appends a 64 bit read to the batch.
func (b *Batch) Read64(address uint32) error { return b.appendRead(address, 8) }

// Write8 appends an 8 bit write to the batch.
func (b *Batch) Write8(address uint32, value uint8) error {
	return b.appendWrite(address, uint64(value), 1)
}

// Write16 appends a 16 bit write to the batch.
func (b *Batch) Write16(address uint32, value uint16) error {
	return b.appendWrite(address, uint64(value), 2)
}

// Write32 appends a 32 bit write to the batch.
func (b *Batch) Write32(address uint32, value uint32) error {
	return b.appendWrite(address, uint64(value), 4)
}

// Write64 appends a 64 bit write to the batch.
func (b *Batch) Write64(address uint32, value uint64) error {
	return b.appendWrite(address, value, 8)
}

// Len returns the number of commands appended so far.
func (b *Batch) Len() int { return b.count }

func (b *Batch) appendRead(address uint32, width int) error {
	if err := b.checkCapacity(); err != nil {
		return err
	}

	n, err := codec.EncodeRead(b.c.reqBuf, b.reqLen, address, width)
	if err != nil {
		return err
	}

	b.c.offsets[b.count] = uint32(b.replyLen)
	b.reqLen += n
	b.replyLen += width
	b.count++
	return nil
}

func (b *Batch) appendWrite(address uint32, value uint64, width int) error {
	if err := b.checkCapacity(); err != nil {
		return err
	}

	n, err := codec.EncodeWrite(b.c.reqBuf, b.reqLen, address, value, width)
	if err != nil {
		return err
	}

	// a write's reply is folded into the aggregate status but still
	// occupies one byte in the reply frame
	b.c.offsets[b.count] = uint32(b.replyLen)
	b.reqLen += n
	b.replyLen += 1
	b.count++
	return nil
}

// checkCapacity rejects appends beyond the preallocated regions. The
// original client corrupted memory here; we fail instead.
func (b *Batch) checkCapacity() error {
	if b.done {
		return common.ErrBatchClosed
	}
	if b.count >= b.c.config.MaxBatchCommands {
		return fmt.Errorf("%w: %d commands", common.ErrBatchTooLarge, b.c.config.MaxBatchCommands)
	}
	return nil
}

// --------------------------------------------------------------------------
// Finalization
// --------------------------------------------------------------------------

// Finalize patches the command count into the reserved header field,
// copies the accumulated request, the expected-size reply frame and the
// reply offsets into owned buffers and releases both locks. The
// returned BatchCommand belongs entirely to the caller.
func (b *Batch) Finalize() (*BatchCommand, error) {
	if b.done {
		return nil, common.ErrBatchClosed
	}
	b.done = true

	codec.PatchBatchCount(b.c.reqBuf, b.count)

	cmd := &BatchCommand{
		Request:      append([]byte(nil), b.c.reqBuf[:b.reqLen]...),
		Reply:        make([]byte, b.replyLen),
		ReplyOffsets: append([]uint32(nil), b.c.offsets[:b.count]...),
	}

	b.c.ipcMu.Unlock()
	b.c.batchMu.Unlock()

	mBatches.Inc()
	mBatchCommands.Add(b.count)
	return cmd, nil
}

// Send ships a finalized batch through the transport and fills its
// reply buffer. It needs no lock: the batch buffers are caller-owned.
func (c *Client) Send(ctx context.Context, cmd *BatchCommand) error {
	if err := c.transport.Send(ctx, cmd.Request, cmd.Reply); err != nil {
		mFailures.Inc()
		return err
	}
	return nil
}

// --------------------------------------------------------------------------
// Reply decoding
// --------------------------------------------------------------------------

// Status returns the aggregate status byte of a sent batch.
func (cmd *BatchCommand) Status() common.Status {
	if len(cmd.Reply) == 0 {
		return common.StatusFail
	}
	return common.Status(cmd.Reply[0])
}

// Value extracts the reply value of the i-th command, which must have
// been a read of the given width.
func (cmd *BatchCommand) Value(i, width int) (uint64, error) {
	if i < 0 || i >= len(cmd.ReplyOffsets) {
		return 0, fmt.Errorf("%w: command index %d of %d", common.ErrUnknown, i, len(cmd.ReplyOffsets))
	}
	return codec.DecodeValue(cmd.Reply, int(cmd.ReplyOffsets[i]), width)
}

// Uint8 extracts the reply of an 8 bit read at command index i.
func (cmd *BatchCommand) Uint8(i int) (uint8, error) {
	v, err := cmd.Value(i, 1)
	return uint8(v), err
}

// Uint16 extracts the reply of a 16 bit read at command index i.
func (cmd *BatchCommand) Uint16(i int) (uint16, error) {
	v, err := cmd.Value(i, 2)
	return uint16(v), err
}

// Uint32 extracts the reply of a 32 bit read at command index i.
func (cmd *BatchCommand) Uint32(i int) (uint32, error) {
	v, err := cmd.Value(i, 4)
	return uint32(v), err
}

// Uint64 extracts the reply of a 64 bit read at command index i.
func (cmd *BatchCommand) Uint64(i int) (uint64, error) {
	return cmd.Value(i, 8)
}
