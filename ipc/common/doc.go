// Package common contains the core definitions shared across the IPC
// client: the wire protocol opcodes and status codes, the error taxonomy,
// the client configuration structure and the logging setup.
//
// Key Components:
//
//   - Opcode: one-byte command tags (Read8..64, Write8..64, MultiCommand)
//     with width deduction helpers.
//
//   - Status: reply status codes returned by the relay endpoint.
//
//   - ClientConfig: all tunable parameters of the client with defaults
//     matching the original PCSX2 IPC constants.
//
//   - Error taxonomy: sentinel errors for width validation, transport
//     failures, remote rejection and batch capacity violations.
package common
