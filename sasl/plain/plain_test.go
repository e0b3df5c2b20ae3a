package saslplain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumuhhh/hivejdbc/sasl"
)

func TestPlainClient(t *testing.T) {
	c := NewPlainClient("", "hive", "secret")
	assert.Equal(t, "PLAIN", c.GetMechanismName())
	assert.True(t, c.HasInitialResponse())
	assert.False(t, c.IsComplete())

	_, err := c.GetNegotiatedProperty("sasl.qop")
	assert.Error(t, err)

	resp, err := c.EvaluateChallenge(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x00hive\x00secret"), resp)
	assert.True(t, c.IsComplete())

	qop, err := c.GetNegotiatedProperty("sasl.qop")
	require.NoError(t, err)
	assert.Equal(t, sasl.QopAuthentication, qop)

	_, err = c.EvaluateChallenge(nil)
	assert.Error(t, err)
	_, err = c.Wrap([]byte("x"))
	assert.Error(t, err)
}
