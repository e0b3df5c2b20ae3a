package hivejdbc

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCauseChain(t *testing.T) {
	root := errors.New("GSSException: No valid credentials provided")
	wrapped := fmt.Errorf("open session: %w", root)
	joined := errors.Join(errors.New("hs2-a: refused"), wrapped)

	assert.Equal(t, []error{wrapped, root}, CauseChain(wrapped))
	chain := CauseChain(joined)
	assert.Len(t, chain, 4)
	assert.Same(t, root, chain[3])
	assert.Empty(t, CauseChain(nil))
}

func TestClassify(t *testing.T) {
	plain := errors.New("some failure")
	assert.Same(t, plain, classify(plain))

	friendly := errors.New("no kerberos ticket, run kinit or pass user_keytab")
	RegisterErrorClassifier(func(chain []error) error {
		for _, e := range chain {
			if strings.Contains(e.Error(), "No valid credentials provided") {
				return friendly
			}
		}
		return nil
	})
	t.Cleanup(func() {
		classifiers.Lock()
		classifiers.list = nil
		classifiers.Unlock()
	})

	assert.Same(t, plain, classify(plain))
	assert.Same(t, friendly, classify(fmt.Errorf("connect: %w", errors.New("GSSException: No valid credentials provided"))))
	assert.Panics(t, func() { RegisterErrorClassifier(nil) })
}
