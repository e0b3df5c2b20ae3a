package hivejdbc

import (
	"github.com/mumuhhh/hivejdbc/internal/logging"

	hive2 "github.com/mumuhhh/hivejdbc/hive"
)

var logger = logging.CreateDefaultLogger()

func init() {
	_ = logger.SetLogLevel("error")
}

// SetLogLevel sets the log level of this package and of the hive2 driver.
func SetLogLevel(level string) error {
	if err := logger.SetLogLevel(level); err != nil {
		return err
	}
	return hive2.SetLogLevel(level)
}

// GetLogger returns the package logger.
func GetLogger() logging.Logger {
	return logger
}
