package hive2

import (
	"strings"
	"sync/atomic"

	"github.com/mumuhhh/hivejdbc/internal/logging"
	"github.com/mumuhhh/hivejdbc/internal/sysprop"
)

var logger = logging.CreateDefaultLogger()

// levelPinned is set once SetLogLevel has been called; the runtime's status
// logger property no longer applies after that.
var levelPinned atomic.Bool

// SetLogLevel changes the driver log level ("off", "error", "debug", ...).
func SetLogLevel(level string) error {
	if err := logger.SetLogLevel(level); err != nil {
		return err
	}
	levelPinned.Store(true)
	return nil
}

// GetLogger returns the driver logger.
func GetLogger() logging.Logger {
	return logger
}

// watchStatusLogger applies the runtime's status logger property to the
// driver logger until a level is set through SetLogLevel.
func watchStatusLogger(rt *sysprop.Runtime) {
	rt.Watch(func(key, value string) {
		if key != sysprop.StatusLoggerLevel || levelPinned.Load() {
			return
		}
		if err := logger.SetLogLevel(strings.ToLower(value)); err != nil {
			logger.Warnf("ignoring %s=%s: %v", key, value, err)
		}
	})
}

func init() {
	_ = logger.SetLogLevel("error")
	watchStatusLogger(sysprop.Default)
}
