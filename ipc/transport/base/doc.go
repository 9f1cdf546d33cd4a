// Package base implements the transport-medium-independent part of the
// client transport: per-call dialing through an injected connector,
// deadline handling, full-request writes, exact-size reply reads and
// status byte validation.
//
// Transport flavors (tcp, unix) only provide an IClientConnector; all
// round trip mechanics live here.
package base
