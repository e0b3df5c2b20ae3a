package hivejdbc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) (int, func()) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()
	return l.Addr().(*net.TCPAddr).Port, func() { l.Close() }
}

func TestCheckServerListening(t *testing.T) {
	port, stop := listen(t)
	defer stop()
	assert.NoError(t, CheckServer(context.Background(), "127.0.0.1", port))
	assert.NoError(t, CheckServer(context.Background(), " 127.0.0.1 ", port))
}

func TestCheckServerNotListening(t *testing.T) {
	port, stop := listen(t)
	stop()

	err := CheckServer(context.Background(), "127.0.0.1", port)
	var re *ReachabilityError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, NotListening, re.Kind)
	assert.Contains(t, err.Error(), "No Hive server is listening")
	assert.NotNil(t, errors.Unwrap(err))
}

func TestCheckServerNotReachable(t *testing.T) {
	err := CheckServer(context.Background(), "hs2.invalid", 10000)
	var re *ReachabilityError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, NotReachable, re.Kind)
	assert.Contains(t, err.Error(), "is not reachable")
}

func TestCheckServerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := CheckServer(ctx, "127.0.0.1", 10000)
	var re *ReachabilityError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, NotListening, re.Kind)
}
