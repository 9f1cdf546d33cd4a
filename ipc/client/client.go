package client

import (
	"context"
	"sync"

	"github.com/VictoriaMetrics/metrics"
	"github.com/emukit/ps2ipc/ipc/codec"
	"github.com/emukit/ps2ipc/ipc/common"
	"github.com/emukit/ps2ipc/ipc/transport"
)

var logger = common.PackageLogger("client")

// Operation counters, exposed through the VictoriaMetrics default set.
var (
	mReads         = metrics.NewCounter("ps2ipc_reads_total")
	mWrites        = metrics.NewCounter("ps2ipc_writes_total")
	mBatches       = metrics.NewCounter("ps2ipc_batches_total")
	mBatchCommands = metrics.NewCounter("ps2ipc_batch_commands_total")
	mFailures      = metrics.NewCounter("ps2ipc_failures_total")
)

// Client talks the IPC protocol to one relay endpoint. All operations
// share a pair of preallocated scratch buffers sized once, at
// construction, for the worst-case batch; two mutexes serialize their
// use (see InitializeBatch for the locking order).
type Client struct {
	config    common.ClientConfig
	transport transport.ICommandTransport

	// batchMu serializes batch construction: at most one batch may be
	// under construction process-wide. ipcMu guards the scratch
	// buffers below, whether used by a single command or a batch.
	batchMu sync.Mutex
	ipcMu   sync.Mutex

	// Scratch regions, allocated once and never resized. reqBuf holds
	// the request being built (worst case: all commands are 64 bit
	// writes), retBuf receives replies (worst case: all commands are
	// 64 bit reads), offsets records where each batched command's
	// reply will land.
	reqBuf  []byte
	retBuf  []byte
	offsets []uint32
}

// New creates a client for the given transport. The transport only
// stores the endpoint; no connection is opened until the first command.
func New(config common.ClientConfig, tp transport.ICommandTransport) (*Client, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := tp.Connect(config); err != nil {
		return nil, err
	}

	n := config.MaxBatchCommands
	c := &Client{
		config:    config,
		transport: tp,
		reqBuf:    make([]byte, common.BatchHeaderSize+common.MaxWriteCommandSize*n),
		retBuf:    make([]byte, 1+common.MaxReplySlotSize*n),
		offsets:   make([]uint32, n),
	}

	logger.Debug().
		Str("endpoint", config.Endpoint).
		Int("max_batch_commands", n).
		Msg("client created")
	return c, nil
}

// Close releases the scratch buffers and the transport. The client must
// not be used afterwards.
func (c *Client) Close() error {
	c.batchMu.Lock()
	defer c.batchMu.Unlock()
	c.ipcMu.Lock()
	defer c.ipcMu.Unlock()

	c.reqBuf, c.retBuf, c.offsets = nil, nil, nil
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Single read operations
// --------------------------------------------------------------------------

// Read8 reads an 8 bit value from the emulated memory.
func (c *Client) Read8(ctx context.Context, address uint32) (uint8, error) {
	v, err := c.read(ctx, address, 1)
	return uint8(v), err
}

// Read16 reads a 16 bit value from the emulated memory.
func (c *Client) Read16(ctx context.Context, address uint32) (uint16, error) {
	v, err := c.read(ctx, address, 2)
	return uint16(v), err
}

// Read32 reads a 32 bit value from the emulated memory.
func (c *Client) Read32(ctx context.Context, address uint32) (uint32, error) {
	v, err := c.read(ctx, address, 4)
	return uint32(v), err
}

// Read64 reads a 64 bit value from the emulated memory.
func (c *Client) Read64(ctx context.Context, address uint32) (uint64, error) {
	return c.read(ctx, address, 8)
}

// --------------------------------------------------------------------------
// Single write operations
// --------------------------------------------------------------------------

// Write8 writes an 8 bit value to the emulated memory.
func (c *Client) Write8(ctx context.Context, address uint32, value uint8) error {
	return c.write(ctx, address, uint64(value), 1)
}

// Write16 writes a 16 bit value to the emulated memory.
func (c *Client) Write16(ctx context.Context, address uint32, value uint16) error {
	return c.write(ctx, address, uint64(value), 2)
}

// Write32 writes a 32 bit value to the emulated memory.
func (c *Client) Write32(ctx context.Context, address uint32, value uint32) error {
	return c.write(ctx, address, uint64(value), 4)
}

// Write64 writes a 64 bit value to the emulated memory.
func (c *Client) Write64(ctx context.Context, address uint32, value uint64) error {
	return c.write(ctx, address, value, 8)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// read encodes a single read command into the scratch buffers, sends it
// and decodes the value after the status byte. The shared-buffer lock is
// held for the whole round trip, so a read blocks while a batch is open.
func (c *Client) read(ctx context.Context, address uint32, width int) (uint64, error) {
	// width validation happens in the encoder, before any I/O
	c.ipcMu.Lock()
	defer c.ipcMu.Unlock()

	n, err := codec.EncodeRead(c.reqBuf, 0, address, width)
	if err != nil {
		return 0, err
	}

	reply := c.retBuf[:1+width]
	if err := c.transport.Send(ctx, c.reqBuf[:n], reply); err != nil {
		mFailures.Inc()
		return 0, err
	}

	mReads.Inc()
	return codec.DecodeValue(reply, 1, width)
}

// write encodes a single write command and sends it. The reply carries
// only the status byte, which the transport already validated.
func (c *Client) write(ctx context.Context, address uint32, value uint64, width int) error {
	c.ipcMu.Lock()
	defer c.ipcMu.Unlock()

	n, err := codec.EncodeWrite(c.reqBuf, 0, address, value, width)
	if err != nil {
		return err
	}

	if err := c.transport.Send(ctx, c.reqBuf[:n], c.retBuf[:1]); err != nil {
		mFailures.Inc()
		return err
	}

	mWrites.Inc()
	return nil
}
