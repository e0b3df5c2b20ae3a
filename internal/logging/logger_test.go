package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogLevel(t *testing.T) {
	l := CreateDefaultLogger()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	require.NoError(t, l.SetLogLevel("debug"))
	assert.Equal(t, "debug", l.GetLogLevel())
	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	require.NoError(t, l.SetLogLevel("OFF"))
	assert.Equal(t, "off", l.GetLogLevel())
	buf.Reset()
	l.Error("hidden")
	assert.Empty(t, buf.String())

	assert.Error(t, l.SetLogLevel("loud"))
}

func TestWithContextAddsConnectionID(t *testing.T) {
	l := CreateDefaultLogger()
	ctx := context.WithValue(context.Background(), ConnectionIDKey, "abc")
	entry := l.WithContext(ctx)
	assert.Equal(t, "abc", entry.Data[string(ConnectionIDKey)])

	assert.Empty(t, l.WithContext(context.Background()).Data)
}
