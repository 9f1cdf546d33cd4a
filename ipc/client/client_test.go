package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emukit/ps2ipc/ipc/common"
	"github.com/emukit/ps2ipc/ipc/ipctest"
	"github.com/emukit/ps2ipc/ipc/transport/tcp"
)

// newTestClient wires a client to an in-process fake endpoint.
func newTestClient(t *testing.T, e *ipctest.Endpoint) *Client {
	t.Helper()

	c, err := New(e.Config(), tcp.NewTCPClientTransport())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSingleReadRoundTrip(t *testing.T) {
	e := ipctest.NewEndpoint(t)
	c := newTestClient(t, e)
	ctx := context.Background()

	e.Poke(0x00347D34, 0x1122334455667788, 8)

	t.Run("read8", func(t *testing.T) {
		v, err := c.Read8(ctx, 0x00347D34)
		if err != nil {
			t.Fatalf("Read8 failed: %v", err)
		}
		if v != 0x88 {
			t.Errorf("Read8 = 0x%X, want 0x88", v)
		}
	})

	t.Run("read16", func(t *testing.T) {
		v, err := c.Read16(ctx, 0x00347D34)
		if err != nil {
			t.Fatalf("Read16 failed: %v", err)
		}
		if v != 0x7788 {
			t.Errorf("Read16 = 0x%X, want 0x7788", v)
		}
	})

	t.Run("read32", func(t *testing.T) {
		v, err := c.Read32(ctx, 0x00347D34)
		if err != nil {
			t.Fatalf("Read32 failed: %v", err)
		}
		if v != 0x55667788 {
			t.Errorf("Read32 = 0x%X, want 0x55667788", v)
		}
	})

	t.Run("read64", func(t *testing.T) {
		v, err := c.Read64(ctx, 0x00347D34)
		if err != nil {
			t.Fatalf("Read64 failed: %v", err)
		}
		if v != 0x1122334455667788 {
			t.Errorf("Read64 = 0x%X, want 0x1122334455667788", v)
		}
	})
}

func TestSingleWriteRoundTrip(t *testing.T) {
	e := ipctest.NewEndpoint(t)
	c := newTestClient(t, e)
	ctx := context.Background()

	if err := c.Write8(ctx, 0x1000, 0x7F); err != nil {
		t.Fatalf("Write8 failed: %v", err)
	}
	if got := e.Peek(0x1000, 1); got != 0x7F {
		t.Errorf("memory after Write8 = 0x%X, want 0x7F", got)
	}

	if err := c.Write32(ctx, 0x2000, 0x0BADF00D); err != nil {
		t.Fatalf("Write32 failed: %v", err)
	}
	if got := e.Peek(0x2000, 4); got != 0x0BADF00D {
		t.Errorf("memory after Write32 = 0x%X, want 0x0BADF00D", got)
	}

	if err := c.Write64(ctx, 0x3000, 0x1122334455667788); err != nil {
		t.Fatalf("Write64 failed: %v", err)
	}
	if got := e.Peek(0x3000, 8); got != 0x1122334455667788 {
		t.Errorf("memory after Write64 = 0x%X, want 0x1122334455667788", got)
	}
}

func TestRemoteRejected(t *testing.T) {
	e := ipctest.NewEndpoint(t)
	c := newTestClient(t, e)
	ctx := context.Background()

	e.Poke(0x1000, 0x42, 1)
	e.SetFailAll(true)

	v, err := c.Read8(ctx, 0x1000)
	if !errors.Is(err, common.ErrRemoteRejected) {
		t.Fatalf("Read8 error = %v, want ErrRemoteRejected", err)
	}
	if v != 0 {
		t.Errorf("Read8 returned partial value 0x%X on rejection", v)
	}

	if err := c.Write8(ctx, 0x1000, 1); !errors.Is(err, common.ErrRemoteRejected) {
		t.Errorf("Write8 error = %v, want ErrRemoteRejected", err)
	}

	b := c.InitializeBatch()
	if err := b.Read8(0x1000); err != nil {
		t.Fatalf("batch append failed: %v", err)
	}
	cmd, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if err := c.Send(ctx, cmd); !errors.Is(err, common.ErrRemoteRejected) {
		t.Errorf("batch Send error = %v, want ErrRemoteRejected", err)
	}
}

func TestTruncatedReplyIsUnknown(t *testing.T) {
	e := ipctest.NewEndpoint(t)
	c := newTestClient(t, e)

	e.SetTruncateReplies(true)

	// a read expects status + value; only the status byte arrives
	if _, err := c.Read32(context.Background(), 0x1000); !errors.Is(err, common.ErrUnknown) {
		t.Errorf("Read32 error = %v, want ErrUnknown", err)
	}
}

func TestDroppedConnectionIsIOFailed(t *testing.T) {
	e := ipctest.NewEndpoint(t)
	c := newTestClient(t, e)

	e.SetCloseWithoutReply(true)

	if _, err := c.Read32(context.Background(), 0x1000); !errors.Is(err, common.ErrIOFailed) {
		t.Errorf("Read32 error = %v, want ErrIOFailed", err)
	}
}

func TestUnreachableEndpoint(t *testing.T) {
	cfg := common.ClientConfig{Endpoint: "127.0.0.1:1", TimeoutSecond: 1}

	c, err := New(cfg, tcp.NewTCPClientTransport())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer c.Close()

	if _, err := c.Read8(context.Background(), 0x1000); !errors.Is(err, common.ErrConnectionFailed) {
		t.Errorf("Read8 error = %v, want ErrConnectionFailed", err)
	}
}

func TestContextCancellation(t *testing.T) {
	e := ipctest.NewEndpoint(t)
	c := newTestClient(t, e)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Read8(ctx, 0x1000); err == nil {
		t.Error("Read8 with cancelled context succeeded, want error")
	}

	// the client must be usable again afterwards
	if _, err := c.Read8(context.Background(), 0x1000); err != nil {
		t.Errorf("Read8 after cancelled call failed: %v", err)
	}
}

func TestSingleOpBlocksWhileBatchOpen(t *testing.T) {
	e := ipctest.NewEndpoint(t)
	c := newTestClient(t, e)

	e.Poke(0x2000, 0xAB, 1)

	b := c.InitializeBatch()

	done := make(chan error, 1)
	go func() {
		_, err := c.Read8(context.Background(), 0x2000)
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("single read completed while batch was open")
	case <-time.After(100 * time.Millisecond):
	}

	if _, err := b.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("single read after batch finalize failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("single read still blocked after batch finalize")
	}
}
