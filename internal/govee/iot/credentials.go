package iot

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// Credentials is a client certificate and private key, PEM encoded, ready
// to be written to disk for paho's TLS configuration or loaded directly
// with tls.X509KeyPair.
type Credentials struct {
	CertPEM []byte
	KeyPEM  []byte
}

// ExtractCredentials decodes the base64 PFX bundle get_iot_key returns and
// extracts the leaf certificate and private key, replacing the original
// bridge's OpenSSL-based PFX parse with a pure-Go decode.
func ExtractCredentials(p12Base64, passphrase string) (Credentials, error) {
	pfxData, err := base64.StdEncoding.DecodeString(p12Base64)
	if err != nil {
		return Credentials{}, fmt.Errorf("iot: decoding base64 pfx bundle: %w", err)
	}

	privateKey, cert, err := pkcs12.Decode(pfxData, passphrase)
	if err != nil {
		return Credentials{}, fmt.Errorf("iot: decoding pfx bundle: %w", err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return Credentials{}, fmt.Errorf("iot: marshaling private key: %w", err)
	}

	return Credentials{
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}),
		KeyPEM:  pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
	}, nil
}

// WriteFiles persists the certificate and key to the configured paths,
// matching the original bridge's /dev/shm default (tmpfs, never touching
// durable storage) — callers are expected to pass paths accordingly.
func (c Credentials) WriteFiles(certPath, keyPath string) error {
	if err := os.WriteFile(certPath, c.CertPEM, 0600); err != nil {
		return fmt.Errorf("iot: writing certificate to %s: %w", certPath, err)
	}
	if err := os.WriteFile(keyPath, c.KeyPEM, 0600); err != nil {
		return fmt.Errorf("iot: writing private key to %s: %w", keyPath, err)
	}
	return nil
}
