package hive2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumuhhh/hivejdbc/internal/sysprop"
)

func resetLogLevel(t *testing.T) {
	t.Cleanup(func() {
		levelPinned.Store(false)
		_ = logger.SetLogLevel("error")
	})
}

func TestStatusLoggerAppliesByDefault(t *testing.T) {
	resetLogLevel(t)
	rt := sysprop.New()
	watchStatusLogger(rt)

	rt.Configure(sysprop.StatusLoggerLevel, "WARN")
	assert.Equal(t, "error", logger.GetLogLevel())
	rt.Start()
	assert.Equal(t, "warning", logger.GetLogLevel())
}

func TestStatusLoggerKeepsExplicitLevel(t *testing.T) {
	resetLogLevel(t)
	rt := sysprop.New()
	watchStatusLogger(rt)

	require.NoError(t, SetLogLevel("debug"))
	rt.Configure(sysprop.StatusLoggerLevel, "OFF")
	rt.Start()
	assert.Equal(t, "debug", logger.GetLogLevel())

	rt.Configure(sysprop.StatusLoggerLevel, "WARN")
	assert.Equal(t, "debug", logger.GetLogLevel())
}

func TestSetLogLevelRejectsUnknown(t *testing.T) {
	resetLogLevel(t)
	assert.Error(t, SetLogLevel("loud"))
	assert.False(t, levelPinned.Load())
}
