package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the root logger of the library. Subpackages derive their own
// loggers from it via PackageLogger at init time, so filtering happens
// through the zerolog global level rather than per-logger levels.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// PackageLogger returns a child logger tagged with the given package name.
func PackageLogger(pkg string) zerolog.Logger {
	return Logger.With().Str("pkg", pkg).Logger()
}

// SetLogLevel adjusts the level of all loggers derived from Logger.
// Must be one of debug, info, warn, error.
func SetLogLevel(level string) error {
	parsed, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}

// ParseLogLevel converts a string level to a zerolog.Level.
func ParseLogLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warning", "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}
