// Package tlsconf derives TLS credentials for the forgeclip TCP listener
// from a shared passphrase (the --token).
//
// The private key is derived deterministically via HKDF so both sides
// produce the same key from the same passphrase. The certificate itself is
// throwaway: clients verify the server's public key directly rather than a
// chain, so no CA or certificate distribution is involved.
//
// Key derivation:
//
//	HKDF-SHA256(ikm=passphrase, salt="forgeclip-tls-v1", info="private-key")
//	→ 64 bytes → reduced mod curve order → deterministic ECDSA P-256 key
package tlsconf

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"golang.org/x/crypto/hkdf"
	"google.golang.org/grpc/credentials"
)

// DefaultPassphrase is used when no token is configured.
const DefaultPassphrase = "forgeclip"

const serverName = "forgeclip"

// ErrKeyMismatch is returned by the client verifier when the server's key
// was derived from a different passphrase.
var ErrKeyMismatch = errors.New("tlsconf: server public key does not match passphrase")

// Pair holds both ends of a passphrase-derived TLS setup.
type Pair struct {
	// Server is for tls.NewListener. NextProtos lets ALPN pick h2 for gRPC
	// and http/1.1 for the HTTP routes on the same port.
	Server *tls.Config
	// Client accepts only a server holding the derived key.
	Client *tls.Config
}

// Derive builds the server and client configs for passphrase.
func Derive(passphrase string) (*Pair, error) {
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	key, err := deriveKey(passphrase)
	if err != nil {
		return nil, fmt.Errorf("tlsconf: derive key: %w", err)
	}

	cert, err := selfSignedCert(key)
	if err != nil {
		return nil, fmt.Errorf("tlsconf: cert: %w", err)
	}

	expectedPub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("tlsconf: marshal pubkey: %w", err)
	}

	return &Pair{
		Server: &tls.Config{
			Certificates: []tls.Certificate{cert},
			NextProtos:   []string{"h2", "http/1.1"},
			MinVersion:   tls.VersionTLS13,
		},
		Client: &tls.Config{
			// Chain verification is replaced by the public key check below.
			InsecureSkipVerify: true, //nolint:gosec
			ServerName:         serverName,
			MinVersion:         tls.VersionTLS13,
			VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
				return verifyKey(rawCerts, expectedPub)
			},
		},
	}, nil
}

// ClientCredentials returns gRPC transport credentials for passphrase.
func ClientCredentials(passphrase string) (credentials.TransportCredentials, error) {
	p, err := Derive(passphrase)
	if err != nil {
		return nil, err
	}
	return credentials.NewTLS(p.Client), nil
}

func verifyKey(rawCerts [][]byte, expectedPub []byte) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("tlsconf: server presented no certificate")
	}
	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("tlsconf: parse server cert: %w", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(cert.PublicKey)
	if err != nil {
		return fmt.Errorf("tlsconf: marshal server pubkey: %w", err)
	}
	if !bytes.Equal(pub, expectedPub) {
		return ErrKeyMismatch
	}
	return nil
}

// deriveKey derives a deterministic ECDSA P-256 private key from passphrase.
func deriveKey(passphrase string) (*ecdsa.PrivateKey, error) {
	r := hkdf.New(sha256.New, []byte(passphrase), []byte("forgeclip-tls-v1"), []byte("private-key"))
	buf := make([]byte, 64)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("hkdf read: %w", err)
	}

	curve := elliptic.P256()
	n := curve.Params().N
	k := new(big.Int).SetBytes(buf)
	k.Mod(k, new(big.Int).Sub(n, big.NewInt(1)))
	k.Add(k, big.NewInt(1)) // k ∈ [1, N-1]

	key := new(ecdsa.PrivateKey)
	key.PublicKey.Curve = curve
	key.D = k
	key.PublicKey.X, key.PublicKey.Y = curve.ScalarBaseMult(k.Bytes())
	return key, nil
}

// selfSignedCert issues a certificate for key. Only its public key matters
// to clients.
func selfSignedCert(key *ecdsa.PrivateKey) (tls.Certificate, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, err
	}
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: serverName},
		DNSNames:              []string{serverName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(100 * 365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, nil
}
