package transport

import (
	"context"

	"github.com/emukit/ps2ipc/ipc/common"
)

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// ICommandTransport is the interface for the client side transport layer.
// One call to Send performs exactly one round trip to the relay endpoint.
type ICommandTransport interface {
	// Connect initializes the transport with the given configuration.
	// No connection is kept open; the endpoint is dialed per call.
	Connect(config common.ClientConfig) error

	// Send writes the full request to the relay endpoint and reads
	// exactly len(reply) bytes back. The first reply byte is the status
	// code; a failure status surfaces as common.ErrRemoteRejected.
	Send(ctx context.Context, request, reply []byte) error

	// Close releases the transport
	Close() error
}
