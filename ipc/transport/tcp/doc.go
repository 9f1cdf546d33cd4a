// Package tcp provides the TCP connector for the IPC transport, used on
// platforms where the relay endpoint listens on a loopback port.
package tcp
