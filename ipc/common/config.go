package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

// Transport addressing is environment specific: a filesystem domain socket
// where available, a loopback TCP port on platforms without them. Both are
// fixed, configuration-free defaults that can be overridden via ClientConfig.
const (
	// DefaultUnixSocket is the domain socket the emulator listens on
	DefaultUnixSocket = "/tmp/pcsx2.sock"

	// DefaultTCPEndpoint is the loopback endpoint used where domain
	// sockets don't exist
	DefaultTCPEndpoint = "127.0.0.1:28011"

	// DefaultMaxBatchCommands is the preallocated per-batch command
	// capacity. Matches the original client's 50k command regions.
	DefaultMaxBatchCommands = 50000

	// DefaultTimeoutSecond is the per-call socket deadline
	DefaultTimeoutSecond = 10
)

// --------------------------------------------------------------------------
// IPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters for the IPC client.
// The zero value is usable after WithDefaults.
type ClientConfig struct {
	// Endpoint is the address of the relay endpoint. Its meaning depends
	// on the transport: a filesystem path for unix, host:port for tcp.
	Endpoint string

	// TimeoutSecond bounds connect/write/read of a single call.
	// Zero means no deadline.
	TimeoutSecond int

	// MaxBatchCommands caps how many commands one batch may carry.
	// The scratch buffers are sized once from this value.
	MaxBatchCommands int

	// TCPNoDelay disables Nagle on TCP connections
	TCPNoDelay bool

	// Logging configuration
	LogLevel string
}

// WithDefaults returns a copy of the config with unset fields filled in.
func (c ClientConfig) WithDefaults() ClientConfig {
	if c.Endpoint == "" {
		c.Endpoint = DefaultUnixSocket
	}
	if c.MaxBatchCommands <= 0 {
		c.MaxBatchCommands = DefaultMaxBatchCommands
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

// Validate checks the configuration for values the client cannot work with.
func (c *ClientConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("no endpoint provided")
	}
	if c.MaxBatchCommands <= 0 {
		return fmt.Errorf("max batch commands must be positive, got %d", c.MaxBatchCommands)
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("IPC Client")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Max Batch Commands", strconv.Itoa(c.MaxBatchCommands))
	addField("TCP NoDelay", strconv.FormatBool(c.TCPNoDelay))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
