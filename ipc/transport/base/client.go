package base

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/emukit/ps2ipc/ipc/common"
	"github.com/emukit/ps2ipc/ipc/transport"
)

var logger = common.PackageLogger("transport")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection
// operations
type IClientConnector interface {
	// Connect establishes a single connection to the given endpoint
	Connect(ctx context.Context, endpoint string) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an
	// established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// clientTransport implements the per-call dial transport independent of
// the specific transport medium (unix, tcp).
type clientTransport struct {
	connector IClientConnector
	config    common.ClientConfig
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the
// specified connector
func NewBaseClientTransport(connector IClientConnector) transport.ICommandTransport {
	return &clientTransport{connector: connector}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.ICommandTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if config.Endpoint == "" {
		return fmt.Errorf("no endpoint provided")
	}
	t.config = config

	logger.Debug().
		Str("transport", t.connector.GetName()).
		Str("endpoint", config.Endpoint).
		Msg("transport configured")
	return nil
}

func (t *clientTransport) Send(ctx context.Context, request, reply []byte) error {
	deadline, hasDeadline := t.deadline(ctx)
	if hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	// One connection per round trip, no pooling. The relay endpoint
	// serves a request per accepted connection.
	conn, err := t.connector.Connect(ctx, t.config.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: dial %s %s: %v",
			common.ErrConnectionFailed, t.connector.GetName(), t.config.Endpoint, err)
	}
	defer conn.Close()

	if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
		return fmt.Errorf("%w: upgrade %s connection: %v",
			common.ErrConnectionFailed, t.connector.GetName(), err)
	}

	if hasDeadline {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("%w: set deadline: %v", common.ErrConnectionFailed, err)
		}
	}

	// net.Conn.Write already loops until the whole request is written
	// or the connection errors out.
	if _, err := conn.Write(request); err != nil {
		return fmt.Errorf("%w: write request of %d bytes: %v",
			common.ErrIOFailed, len(request), err)
	}

	if n, err := io.ReadFull(conn, reply); err != nil {
		// Once any reply byte arrived the endpoint has acted on the
		// request, so a truncated reply leaves the outcome ambiguous.
		if n > 0 {
			return fmt.Errorf("%w: reply truncated after %d of %d bytes: %v",
				common.ErrUnknown, n, len(reply), err)
		}
		return fmt.Errorf("%w: read reply of %d bytes: %v",
			common.ErrIOFailed, len(reply), err)
	}

	if len(reply) > 0 && common.Status(reply[0]) == common.StatusFail {
		return fmt.Errorf("%w: status 0x%02X", common.ErrRemoteRejected, reply[0])
	}
	return nil
}

func (t *clientTransport) Close() error {
	// Nothing is pooled, so there is nothing to tear down.
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// deadline combines the configured timeout with the context deadline,
// whichever expires first.
func (t *clientTransport) deadline(ctx context.Context) (time.Time, bool) {
	var deadline time.Time
	if t.config.TimeoutSecond > 0 {
		deadline = time.Now().Add(time.Duration(t.config.TimeoutSecond) * time.Second)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok {
		if deadline.IsZero() || ctxDeadline.Before(deadline) {
			deadline = ctxDeadline
		}
	}
	return deadline, !deadline.IsZero()
}
