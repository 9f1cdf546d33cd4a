// Package unix provides the Unix domain socket connector for the IPC
// transport, the default on platforms with filesystem sockets.
package unix
