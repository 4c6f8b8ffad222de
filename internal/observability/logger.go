// Package observability provides logging setup and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogger configures the standard logrus logger and returns it.
// format is "text" or "json"; output goes to stderr so stdout stays clean for results.
func SetupLogger(level, format string) (*logrus.Logger, error) {
	return configure(logrus.StandardLogger(), os.Stderr, level, format)
}

// NewLogger builds an independent logger writing to out
func NewLogger(out io.Writer, level, format string) (*logrus.Logger, error) {
	return configure(logrus.New(), out, level, format)
}

func configure(logger *logrus.Logger, out io.Writer, level, format string) (*logrus.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}

	logger.SetOutput(out)
	logger.SetLevel(lvl)
	return logger, nil
}
