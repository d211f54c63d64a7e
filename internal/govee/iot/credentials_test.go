package iot

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/pkcs12"
)

func buildTestPFX(t *testing.T, password string) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "gv2mqtt-test"},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate() error = %v", err)
	}
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		t.Fatalf("ParseCertificate() error = %v", err)
	}

	pfxData, err := pkcs12.Encode(rand.Reader, key, cert, nil, password)
	if err != nil {
		t.Fatalf("pkcs12.Encode() error = %v", err)
	}
	return base64.StdEncoding.EncodeToString(pfxData)
}

func TestExtractCredentialsDecodesPFX(t *testing.T) {
	p12Base64 := buildTestPFX(t, "sesame")

	creds, err := ExtractCredentials(p12Base64, "sesame")
	if err != nil {
		t.Fatalf("ExtractCredentials() error = %v", err)
	}
	if len(creds.CertPEM) == 0 || len(creds.KeyPEM) == 0 {
		t.Fatal("expected non-empty cert and key PEM")
	}
}

func TestExtractCredentialsWrongPassphrase(t *testing.T) {
	p12Base64 := buildTestPFX(t, "sesame")

	_, err := ExtractCredentials(p12Base64, "wrong")
	if err == nil {
		t.Fatal("expected an error for a wrong passphrase")
	}
}

func TestWriteFilesWritesBothFiles(t *testing.T) {
	p12Base64 := buildTestPFX(t, "sesame")
	creds, err := ExtractCredentials(p12Base64, "sesame")
	if err != nil {
		t.Fatalf("ExtractCredentials() error = %v", err)
	}

	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	if err := creds.WriteFiles(certPath, keyPath); err != nil {
		t.Fatalf("WriteFiles() error = %v", err)
	}
}
