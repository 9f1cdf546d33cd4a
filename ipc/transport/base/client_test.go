package base

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/emukit/ps2ipc/ipc/common"
)

// testConnector dials plain TCP, like the tcp flavor, without pulling
// that package in.
type testConnector struct {
	dialer net.Dialer
}

func (c *testConnector) GetName() string { return "test" }

func (c *testConnector) Connect(ctx context.Context, endpoint string) (net.Conn, error) {
	return c.dialer.DialContext(ctx, "tcp", endpoint)
}

func (c *testConnector) UpgradeConnection(net.Conn, common.ClientConfig) error { return nil }

// cannedServer answers every connection with the same reply bytes after
// consuming wantRequest bytes of request.
func cannedServer(t *testing.T, wantRequest int, reply []byte) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				buf := make([]byte, wantRequest)
				if _, err := io.ReadFull(conn, buf); err != nil {
					return
				}
				_, _ = conn.Write(reply)
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func newTransport(t *testing.T, endpoint string) *clientTransport {
	t.Helper()

	tp := NewBaseClientTransport(&testConnector{}).(*clientTransport)
	cfg := common.ClientConfig{Endpoint: endpoint, TimeoutSecond: 2}
	if err := tp.Connect(cfg.WithDefaults()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return tp
}

func TestConnectRequiresEndpoint(t *testing.T) {
	tp := NewBaseClientTransport(&testConnector{})
	if err := tp.Connect(common.ClientConfig{}); err == nil {
		t.Error("Connect without endpoint succeeded, want error")
	}
}

func TestSendRoundTrip(t *testing.T) {
	request := []byte{0x00, 0x34, 0x12, 0x00, 0x00}
	addr := cannedServer(t, len(request), []byte{0x00, 0x42})
	tp := newTransport(t, addr)

	reply := make([]byte, 2)
	if err := tp.Send(context.Background(), request, reply); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply[1] != 0x42 {
		t.Errorf("reply value byte = 0x%02X, want 0x42", reply[1])
	}
}

func TestSendFailureStatus(t *testing.T) {
	addr := cannedServer(t, 5, []byte{0xFF, 0x00})
	tp := newTransport(t, addr)

	reply := make([]byte, 2)
	err := tp.Send(context.Background(), []byte{0x00, 0, 0, 0, 0}, reply)
	if !errors.Is(err, common.ErrRemoteRejected) {
		t.Errorf("Send error = %v, want ErrRemoteRejected", err)
	}
}

func TestSendShortReplyIsUnknown(t *testing.T) {
	addr := cannedServer(t, 5, []byte{0x00}) // one byte where five are due
	tp := newTransport(t, addr)

	reply := make([]byte, 5)
	err := tp.Send(context.Background(), []byte{0x02, 0, 0, 0, 0}, reply)
	if !errors.Is(err, common.ErrUnknown) {
		t.Errorf("Send error = %v, want ErrUnknown", err)
	}
}

func TestSendNoReplyIsIOFailed(t *testing.T) {
	addr := cannedServer(t, 5, nil) // close without answering
	tp := newTransport(t, addr)

	reply := make([]byte, 5)
	err := tp.Send(context.Background(), []byte{0x02, 0, 0, 0, 0}, reply)
	if !errors.Is(err, common.ErrIOFailed) {
		t.Errorf("Send error = %v, want ErrIOFailed", err)
	}
}

func TestSendConnectionRefused(t *testing.T) {
	tp := newTransport(t, "127.0.0.1:1")

	err := tp.Send(context.Background(), []byte{0x00}, make([]byte, 1))
	if !errors.Is(err, common.ErrConnectionFailed) {
		t.Errorf("Send error = %v, want ErrConnectionFailed", err)
	}
}
