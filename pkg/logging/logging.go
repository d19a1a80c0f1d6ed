// Package logging holds the process-wide structured logger shared by the
// mesh kernel, the scripting engine and the meshkit CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once     sync.Once
	instance *log.Logger
)

// Logger returns the shared logger, creating it on first use.
func Logger() *log.Logger {
	once.Do(func() {
		instance = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "polymesh",
		})
		instance.SetLevel(log.InfoLevel)
	})
	return instance
}

// SetLevel parses a level name ("debug", "info", "warn", "error") and applies it.
func SetLevel(name string) error {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	Logger().SetLevel(lvl)
	return nil
}

// SetOutput redirects log output, mostly for tests and the CLI's --quiet mode.
func SetOutput(w io.Writer) {
	Logger().SetOutput(w)
}

func Debug(msg string, keyvals ...interface{}) {
	Logger().Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	Logger().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	Logger().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	Logger().Error(msg, keyvals...)
}
