// Package ipctest provides an in-process fake relay endpoint for tests.
// It implements the complete wire protocol, including multi-command
// batches, against a byte-addressable memory image and supports failure
// injection (rejected commands, truncated replies, dropped connections).
package ipctest
