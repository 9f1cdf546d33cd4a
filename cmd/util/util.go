package util

import (
	"fmt"
	"strings"

	"github.com/emukit/ps2ipc/ipc/client"
	"github.com/emukit/ps2ipc/ipc/common"
	"github.com/emukit/ps2ipc/ipc/transport"
	"github.com/emukit/ps2ipc/ipc/transport/tcp"
	"github.com/emukit/ps2ipc/ipc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupClientFlags adds common IPC connection flags to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "transport"
	cmd.PersistentFlags().String(key, "unix", WrapString("transport to use (tcp, unix)"))

	key = "endpoint"
	cmd.PersistentFlags().String(key, "", WrapString("address of the relay endpoint (socket path for unix, host:port for tcp; empty picks the transport default)"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, common.DefaultTimeoutSecond, WrapString("per-call socket timeout in seconds"))

	key = "max-batch"
	cmd.PersistentFlags().Int(key, common.DefaultMaxBatchCommands, WrapString("maximum commands one batch may carry"))

	key = "tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("whether to enable TCP_NODELAY (tcp transport only)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("log level (debug, info, warn, error)"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("ps2ipc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() common.ClientConfig {
	endpoint := viper.GetString("endpoint")
	if endpoint == "" {
		// the default endpoint depends on the socket flavor
		switch viper.GetString("transport") {
		case "tcp":
			endpoint = common.DefaultTCPEndpoint
		default:
			endpoint = common.DefaultUnixSocket
		}
	}

	conf := common.ClientConfig{
		Endpoint:         endpoint,
		TimeoutSecond:    viper.GetInt("timeout"),
		MaxBatchCommands: viper.GetInt("max-batch"),
		TCPNoDelay:       viper.GetBool("tcp-nodelay"),
		LogLevel:         viper.GetString("log-level"),
	}
	return conf.WithDefaults()
}

// GetTransport creates a transport based on configuration
func GetTransport() (transport.ICommandTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// NewClient builds a client from the resolved configuration
func NewClient() (*client.Client, error) {
	config := GetClientConfig()

	if err := common.SetLogLevel(config.LogLevel); err != nil {
		return nil, err
	}

	tp, err := GetTransport()
	if err != nil {
		return nil, err
	}

	return client.New(config, tp)
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// ParseWidth converts a bit width argument (8, 16, 32, 64) to bytes
func ParseWidth(arg string) (int, error) {
	switch arg {
	case "8":
		return 1, nil
	case "16":
		return 2, nil
	case "32":
		return 4, nil
	case "64":
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: %s bits (must be 8, 16, 32 or 64)", common.ErrInvalidWidth, arg)
	}
}
