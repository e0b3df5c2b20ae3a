package saslgsskerb

import (
	"encoding/binary"
	"errors"
	"fmt"

	krb "github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/crypto"
	"github.com/jcmturner/gokrb5/v8/gssapi"
	"github.com/jcmturner/gokrb5/v8/iana/keyusage"
	"github.com/jcmturner/gokrb5/v8/spnego"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/mumuhhh/hivejdbc/sasl"
)

// Security layer bits offered by the server in the final handshake message.
const (
	layerNone      byte = 1
	layerIntegrity byte = 2
	layerPrivacy   byte = 4

	maxBufferSize = 65536
)

// GssKerbClient implements the GSSAPI mechanism (RFC 4752) on top of a gokrb5
// client that already holds, or can obtain, a TGT.
type GssKerbClient struct {
	authzID        string
	protocol       string
	serverName     string
	kerberosClient *krb.Client

	completed, finalHandshake, privacy, integrity bool
	sessionKey                                    types.EncryptionKey
}

// NewGssKerbClient targets the service principal protocol/serverName.
func NewGssKerbClient(authzID, protocol, serverName string, kerberosClient *krb.Client) *GssKerbClient {
	return &GssKerbClient{
		authzID:        authzID,
		protocol:       protocol,
		serverName:     serverName,
		kerberosClient: kerberosClient,
	}
}

func (p *GssKerbClient) GetMechanismName() string {
	return "GSSAPI"
}

func (p *GssKerbClient) HasInitialResponse() bool {
	return true
}

// ServicePrincipal is the SPN the client requests a ticket for.
func (p *GssKerbClient) ServicePrincipal() string {
	return p.protocol + "/" + p.serverName
}

func (p *GssKerbClient) EvaluateChallenge(challenge []byte) ([]byte, error) {
	if p.completed {
		return nil, errors.New("GSSAPI authentication already completed")
	}
	if p.kerberosClient == nil {
		return nil, errors.New("GSSAPI authentication requires a kerberos client")
	}

	if !p.finalHandshake {
		ticket, key, err := p.kerberosClient.GetServiceTicket(p.ServicePrincipal())
		if err != nil {
			return nil, fmt.Errorf("obtaining service ticket for %s: %w", p.ServicePrincipal(), err)
		}
		p.sessionKey = key
		token, err := spnego.NewNegTokenInitKRB5(p.kerberosClient, ticket, key)
		if err != nil {
			return nil, err
		}
		p.finalHandshake = true
		return token.MechTokenBytes, nil
	}

	if len(challenge) == 0 {
		return []byte{}, nil
	}
	data, err := p.unwrapToken(challenge, false)
	if err != nil {
		return nil, err
	}
	if len(data) != 4 {
		return nil, fmt.Errorf("security layer message has %d bytes, expected 4", len(data))
	}
	qopBits := data[0]
	data[0] = 0
	serverMaxLength := int(binary.BigEndian.Uint32(data))

	switch {
	case qopBits&layerPrivacy != 0:
		p.integrity = true
		p.privacy = true
		qopBits = layerPrivacy
	case qopBits&layerIntegrity != 0:
		p.integrity = true
		qopBits = layerIntegrity
	default:
		qopBits = layerNone
	}

	maxLength := serverMaxLength
	if maxLength > maxBufferSize {
		maxLength = maxBufferSize
	}
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(qopBits)<<24|uint32(maxLength))

	// flag byte, 3 bytes of max length, then the authorization id
	out := append(header, []byte(p.authzID)...)
	signed, err := p.wrapToken(out, false)
	if err != nil {
		return nil, err
	}
	p.completed = true
	return signed, nil
}

func (p *GssKerbClient) IsComplete() bool {
	return p.completed
}

func (p *GssKerbClient) unwrapToken(b []byte, privacyState bool) ([]byte, error) {
	var wrapToken gssapi.WrapToken
	if err := wrapToken.Unmarshal(b, true); err != nil {
		return nil, err
	}
	if privacyState {
		return crypto.DecryptMessage(wrapToken.Payload, p.sessionKey, keyusage.GSSAPI_ACCEPTOR_SEAL)
	}
	if _, err := wrapToken.Verify(p.sessionKey, keyusage.GSSAPI_ACCEPTOR_SEAL); err != nil {
		return nil, fmt.Errorf("unverifiable message from server: %w", err)
	}
	return wrapToken.Payload, nil
}

func (p *GssKerbClient) Unwrap(incoming []byte) ([]byte, error) {
	if !p.completed {
		return nil, errors.New("GSSAPI authentication not completed")
	}
	if !p.integrity {
		return nil, errors.New("no security layer negotiated")
	}
	return p.unwrapToken(incoming, p.privacy)
}

func (p *GssKerbClient) wrapToken(b []byte, privacyState bool) ([]byte, error) {
	payload := b
	if privacyState {
		et, err := crypto.GetEtype(p.sessionKey.KeyType)
		if err != nil {
			return nil, fmt.Errorf("error getting etype: %w", err)
		}
		_, sealed, err := et.EncryptMessage(p.sessionKey.KeyValue, b, keyusage.GSSAPI_INITIATOR_SEAL)
		if err != nil {
			return nil, err
		}
		payload = sealed
	}
	signed, err := gssapi.NewInitiatorWrapToken(payload, p.sessionKey)
	if err != nil {
		return nil, err
	}
	return signed.Marshal()
}

func (p *GssKerbClient) Wrap(outgoing []byte) ([]byte, error) {
	if !p.completed {
		return nil, errors.New("GSSAPI authentication not completed")
	}
	if !p.integrity {
		return nil, errors.New("no security layer negotiated")
	}
	return p.wrapToken(outgoing, p.privacy)
}

func (p *GssKerbClient) GetNegotiatedProperty(propName string) (string, error) {
	if !p.completed {
		return "", errors.New("GSSAPI authentication not completed")
	}
	if propName != "sasl.qop" {
		return "", nil
	}
	switch {
	case p.privacy:
		return sasl.QopPrivacy, nil
	case p.integrity:
		return sasl.QopIntegrity, nil
	}
	return sasl.QopAuthentication, nil
}

func (p *GssKerbClient) Dispose() {
	p.sessionKey = types.EncryptionKey{}
}

var _ sasl.Client = (*GssKerbClient)(nil)
