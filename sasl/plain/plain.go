package saslplain

import (
	"errors"

	"github.com/mumuhhh/hivejdbc/sasl"
)

// PlainClient implements RFC 4616. HiveServer2 uses it for user/password and
// anonymous logins.
type PlainClient struct {
	completed       bool
	authorizationID string
	username        string
	password        string
}

func NewPlainClient(authorizationID, username, password string) *PlainClient {
	return &PlainClient{
		authorizationID: authorizationID,
		username:        username,
		password:        password,
	}
}

func (p *PlainClient) GetMechanismName() string {
	return "PLAIN"
}

func (p *PlainClient) HasInitialResponse() bool {
	return true
}

func (p *PlainClient) EvaluateChallenge([]byte) ([]byte, error) {
	if p.completed {
		return nil, errors.New("PLAIN authentication already completed")
	}
	p.completed = true
	out := make([]byte, 0, len(p.authorizationID)+len(p.username)+len(p.password)+2)
	out = append(out, p.authorizationID...)
	out = append(out, 0)
	out = append(out, p.username...)
	out = append(out, 0)
	out = append(out, p.password...)
	return out, nil
}

func (p *PlainClient) IsComplete() bool {
	return p.completed
}

func (p *PlainClient) Unwrap([]byte) ([]byte, error) {
	if p.completed {
		return nil, errors.New("PLAIN supports neither integrity nor privacy")
	}
	return nil, errors.New("PLAIN authentication not completed")
}

func (p *PlainClient) Wrap([]byte) ([]byte, error) {
	if p.completed {
		return nil, errors.New("PLAIN supports neither integrity nor privacy")
	}
	return nil, errors.New("PLAIN authentication not completed")
}

func (p *PlainClient) GetNegotiatedProperty(propName string) (string, error) {
	if !p.completed {
		return "", errors.New("PLAIN authentication not completed")
	}
	if propName == "sasl.qop" {
		return sasl.QopAuthentication, nil
	}
	return "", nil
}

func (p *PlainClient) Dispose() {
	p.password = ""
}

var _ sasl.Client = (*PlainClient)(nil)
