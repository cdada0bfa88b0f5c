package log

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"asmcut/internal/config"
	"asmcut/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	closer      *logging.LoggerCloser
)

// Setup installs the process-wide slog logger. debug forces debug level and
// caller reporting.
func Setup(cfg config.Config, debug bool) {
	initOnce.Do(func() {
		if debug {
			cfg.LogLevel = "debug"
		}
		closer = logging.NewLogger(cfg)
		if debug {
			closer.SetReportCaller(true)
			closer.SetLevel(charmlog.DebugLevel)
		}

		slog.SetDefault(slog.New(closer.Logger))
		initialized.Store(true)
	})
}

func Initialized() bool {
	return initialized.Load()
}

// Close releases the log file, if one was opened.
func Close() error {
	if closer == nil {
		return nil
	}
	return closer.Close()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
