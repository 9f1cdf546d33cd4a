// Package transport defines the interface and abstractions for moving
// encoded IPC commands to the relay endpoint. It provides a common
// contract that all transport implementations must fulfill, so the
// client is agnostic to the socket flavor underneath.
//
// Implementations dial one connection per Send call, write the full
// request, read exactly the expected reply size and close the
// connection. There is no pooling and no retry; a failure surfaces
// immediately as one of the common error kinds.
//
// Key Components:
//
//   - ICommandTransport: interface for client-side transport
//     implementations.
//
//   - base: the shared per-call dial implementation, parameterized by a
//     connector.
//
//   - tcp, unix: connectors for the two socket flavors the relay
//     endpoint exposes.
package transport
