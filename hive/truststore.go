package hive2

import (
	"bytes"
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/pavlo-v-chernykh/keystore-go/v4"
	"software.sslmate.com/src/go-pkcs12"
)

const jksMagic = 0xFEEDFEED

// loadTrustStore reads a JKS, PEM or PKCS#12 trust store into a certificate pool.
func loadTrustStore(path, password string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trust store: %w", err)
	}
	var certs []*x509.Certificate
	switch {
	case len(data) >= 4 && binary.BigEndian.Uint32(data) == jksMagic:
		certs, err = jksCertificates(data, password)
	case bytes.Contains(data, []byte("-----BEGIN")):
		certs, err = pemCertificates(data)
	default:
		certs, err = pkcs12.DecodeTrustStore(data, password)
	}
	if err != nil {
		return nil, fmt.Errorf("loading trust store %s: %w", path, err)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("trust store %s holds no certificates", path)
	}
	pool := x509.NewCertPool()
	for _, c := range certs {
		pool.AddCert(c)
	}
	return pool, nil
}

func jksCertificates(data []byte, password string) ([]*x509.Certificate, error) {
	ks := keystore.New()
	if err := ks.Load(bytes.NewReader(data), []byte(password)); err != nil {
		return nil, err
	}
	var certs []*x509.Certificate
	for _, alias := range ks.Aliases() {
		if !ks.IsTrustedCertificateEntry(alias) {
			continue
		}
		entry, err := ks.GetTrustedCertificateEntry(alias)
		if err != nil {
			return nil, err
		}
		cert, err := x509.ParseCertificate(entry.Certificate.Content)
		if err != nil {
			return nil, fmt.Errorf("certificate %q: %w", alias, err)
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

func pemCertificates(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, errors.New("no CERTIFICATE blocks")
	}
	return certs, nil
}
