package tcp

import (
	"context"
	"net"

	"github.com/emukit/ps2ipc/ipc/common"
	"github.com/emukit/ps2ipc/ipc/transport"
	"github.com/emukit/ps2ipc/ipc/transport/base"
)

// clientConnector implements the IClientConnector interface for TCP sockets
type clientConnector struct {
	dialer net.Dialer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "tcp"
}

func (c *clientConnector) Connect(ctx context.Context, endpoint string) (net.Conn, error) {
	return c.dialer.DialContext(ctx, "tcp", endpoint)
}

func (c *clientConnector) UpgradeConnection(conn net.Conn, config common.ClientConfig) error {
	if tcpConn, ok := conn.(*net.TCPConn); ok && config.TCPNoDelay {
		return tcpConn.SetNoDelay(true)
	}
	return nil
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPClientTransport creates a new TCP client transport
func NewTCPClientTransport() transport.ICommandTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
