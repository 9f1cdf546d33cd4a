// Package ipc provides a client for the PCSX2-style emulator IPC: a
// binary socket protocol through which an external tool reads and
// writes the memory of an emulated process via a relay endpoint.
//
// The package is organized into several subpackages:
//
//   - common: Wire protocol constants, the error taxonomy, client
//     configuration and logging shared by the whole library.
//
//   - codec: Byte-exact encoding of read/write commands into
//     caller-supplied buffers and decoding of reply values.
//
//   - transport: Per-call socket round trips with pluggable connectors
//     (TCP, Unix domain sockets).
//
//   - client: The user-facing client with single Read/Write operations
//     and the multi-command batch builder over shared scratch buffers.
//
//   - watch: A polling watcher that batches reads of subscribed
//     addresses and reports changes.
//
//   - ipctest: An in-process fake relay endpoint for tests.
package ipc
