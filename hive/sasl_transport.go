package hive2

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/mumuhhh/hivejdbc/sasl"
)

// saslStatus is the first byte of every negotiation message.
type saslStatus byte

const (
	saslStart saslStatus = iota + 1
	saslOK
	saslBad
	saslError
	saslComplete
)

var saslStatusNames = [...]string{"", "START", "OK", "BAD", "ERROR", "COMPLETE"}

func (s saslStatus) String() string {
	if int(s) < len(saslStatusNames) && s > 0 {
		return saslStatusNames[s]
	}
	return fmt.Sprintf("status(%d)", byte(s))
}

// maxSaslPayload bounds negotiation messages and data frames.
const maxSaslPayload = 100 << 20

// saslTransport runs the Thrift SASL handshake on Open and then exchanges
// length-prefixed frames, wrapped by the mechanism once it negotiated a
// security layer.
type saslTransport struct {
	inner  thrift.TTransport
	client sasl.Client
	ctx    context.Context
	wrap   bool

	rbuf bytes.Buffer
	wbuf bytes.Buffer
}

func newSaslTransport(ctx context.Context, inner thrift.TTransport, client sasl.Client) *saslTransport {
	if ctx == nil {
		ctx = context.Background()
	}
	return &saslTransport{inner: inner, client: client, ctx: ctx}
}

func (t *saslTransport) Open() error {
	if t.client.IsComplete() {
		return errors.New("sasl: transport already open")
	}
	if !t.inner.IsOpen() {
		if err := t.inner.Open(); err != nil {
			return err
		}
	}
	if err := t.start(); err != nil {
		return err
	}
	if err := t.negotiate(); err != nil {
		return err
	}
	qop, err := t.client.GetNegotiatedProperty("sasl.qop")
	if err != nil {
		return err
	}
	t.wrap = qop != sasl.QopAuthentication
	logger.WithContext(t.ctx).Debugf("sasl %s negotiated qop %s", t.client.GetMechanismName(), qop)
	return nil
}

// start sends the mechanism name followed by the initial response, which is
// empty for mechanisms without one.
func (t *saslTransport) start() error {
	var resp []byte
	if t.client.HasInitialResponse() {
		var err error
		if resp, err = t.client.EvaluateChallenge(nil); err != nil {
			return err
		}
	}
	if err := t.writeMessage(saslStart, []byte(t.client.GetMechanismName())); err != nil {
		return err
	}
	return t.writeMessage(t.nextStatus(), resp)
}

// negotiate answers server challenges until the server reports COMPLETE.
func (t *saslTransport) negotiate() error {
	for {
		status, payload, err := t.readMessage()
		if err != nil {
			return err
		}
		if status != saslOK && status != saslComplete {
			return fmt.Errorf("sasl: expected OK or COMPLETE, got %s", status)
		}
		if t.client.IsComplete() {
			if status != saslComplete {
				return fmt.Errorf("sasl: expected COMPLETE, got %s", status)
			}
			return nil
		}
		resp, err := t.client.EvaluateChallenge(payload)
		if err != nil {
			return err
		}
		if status == saslComplete {
			return nil
		}
		if err := t.writeMessage(t.nextStatus(), resp); err != nil {
			return err
		}
	}
}

func (t *saslTransport) nextStatus() saslStatus {
	if t.client.IsComplete() {
		return saslComplete
	}
	return saslOK
}

func (t *saslTransport) writeMessage(status saslStatus, body []byte) error {
	msg := make([]byte, 5+len(body))
	msg[0] = byte(status)
	binary.BigEndian.PutUint32(msg[1:5], uint32(len(body)))
	copy(msg[5:], body)
	if _, err := t.inner.Write(msg); err != nil {
		return err
	}
	return t.inner.Flush(t.ctx)
}

func (t *saslTransport) readMessage() (saslStatus, []byte, error) {
	var header [5]byte
	if _, err := io.ReadFull(t.inner, header[:]); err != nil {
		return 0, nil, err
	}
	status := saslStatus(header[0])
	length := binary.BigEndian.Uint32(header[1:])
	if length > maxSaslPayload {
		msg := fmt.Sprintf("invalid payload header length: %d", length)
		_ = t.writeMessage(saslError, []byte(msg))
		return 0, nil, errors.New("sasl: " + msg)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(t.inner, payload); err != nil {
		return 0, nil, err
	}
	if status == saslBad || status == saslError {
		return status, nil, fmt.Errorf("sasl: negotiation failed (%s): %s", status, payload)
	}
	return status, payload, nil
}

func (t *saslTransport) readFrame() error {
	var header [4]byte
	if _, err := io.ReadFull(t.inner, header[:]); err != nil {
		return err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > maxSaslPayload {
		return fmt.Errorf("sasl: frame of %d bytes exceeds limit", length)
	}
	frame := make([]byte, length)
	if _, err := io.ReadFull(t.inner, frame); err != nil {
		return err
	}
	if t.wrap {
		var err error
		if frame, err = t.client.Unwrap(frame); err != nil {
			return err
		}
	}
	t.rbuf.Write(frame)
	return nil
}

func (t *saslTransport) Read(p []byte) (int, error) {
	if t.rbuf.Len() == 0 {
		if err := t.readFrame(); err != nil {
			return 0, err
		}
	}
	return t.rbuf.Read(p)
}

func (t *saslTransport) Write(p []byte) (int, error) {
	return t.wbuf.Write(p)
}

// Flush sends the buffered writes as one frame.
func (t *saslTransport) Flush(ctx context.Context) error {
	payload := t.wbuf.Bytes()
	if t.wrap {
		var err error
		if payload, err = t.client.Wrap(payload); err != nil {
			return err
		}
	}
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)
	if _, err := t.inner.Write(frame); err != nil {
		return err
	}
	t.wbuf.Reset()
	return t.inner.Flush(ctx)
}

func (t *saslTransport) RemainingBytes() uint64 {
	return uint64(t.rbuf.Len())
}

func (t *saslTransport) IsOpen() bool {
	return t.inner.IsOpen() && t.client.IsComplete()
}

func (t *saslTransport) Close() error {
	t.client.Dispose()
	return t.inner.Close()
}

var _ thrift.TTransport = (*saslTransport)(nil)
