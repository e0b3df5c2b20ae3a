package saslgsskerb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGssKerbClientBeforeHandshake(t *testing.T) {
	c := NewGssKerbClient("", "hive", "hs2.example.com", nil)
	assert.Equal(t, "GSSAPI", c.GetMechanismName())
	assert.Equal(t, "hive/hs2.example.com", c.ServicePrincipal())
	assert.True(t, c.HasInitialResponse())
	assert.False(t, c.IsComplete())

	_, err := c.EvaluateChallenge(nil)
	assert.Error(t, err)

	_, err = c.Wrap([]byte("x"))
	assert.Error(t, err)
	_, err = c.Unwrap([]byte("x"))
	assert.Error(t, err)
	_, err = c.GetNegotiatedProperty("sasl.qop")
	assert.Error(t, err)
}
