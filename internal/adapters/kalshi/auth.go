package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	headerKey       = "KALSHI-ACCESS-KEY"
	headerSignature = "KALSHI-ACCESS-SIGNATURE"
	headerTimestamp = "KALSHI-ACCESS-TIMESTAMP"
)

// LoadPrivateKey lee una clave RSA en PEM (PKCS#8 o PKCS#1) desde path.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kalshi.LoadPrivateKey: read: %w", err)
	}
	key, err := ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("kalshi.LoadPrivateKey: %w", err)
	}
	return key, nil
}

// ParsePrivateKey decodifica una clave RSA en PEM. Prueba PKCS#8 y luego PKCS#1.
func ParsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("no PEM block found in private key")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		pkcs1Key, pkcs1Err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if pkcs1Err != nil {
			return nil, fmt.Errorf("parse private key: %w (pkcs1: %v)", err, pkcs1Err)
		}
		return pkcs1Key, nil
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("expected RSA private key, got %T", key)
	}
	return rsaKey, nil
}

// SignatureMessage es el texto firmado: timestamp en ms + método + path,
// sin query string.
func SignatureMessage(ts, method, path string) string {
	return ts + method + path
}

// sign añade las cabeceras de autenticación RSA-PSS-SHA256 a req.
func (c *Client) sign(req *http.Request) error {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	msg := SignatureMessage(ts, req.Method, req.URL.Path)

	hash := sha256.Sum256([]byte(msg))
	sig, err := rsa.SignPSS(rand.Reader, c.key, crypto.SHA256, hash[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return fmt.Errorf("sign request: %w", err)
	}

	req.Header.Set(headerKey, c.keyID)
	req.Header.Set(headerSignature, base64.StdEncoding.EncodeToString(sig))
	req.Header.Set(headerTimestamp, ts)
	return nil
}
