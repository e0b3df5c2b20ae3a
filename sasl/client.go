// Package sasl defines the client side of the SASL mechanisms used by the
// HiveServer2 binary transport.
package sasl

// Quality of protection values negotiated through the "sasl.qop" property.
const (
	QopAuthentication = "auth"
	QopIntegrity      = "auth-int"
	QopPrivacy        = "auth-conf"
)

type Client interface {
	GetMechanismName() string
	HasInitialResponse() bool
	EvaluateChallenge(challenge []byte) ([]byte, error)
	IsComplete() bool
	Unwrap(incoming []byte) ([]byte, error)
	Wrap(outgoing []byte) ([]byte, error)
	GetNegotiatedProperty(propName string) (string, error)
	Dispose()
}
