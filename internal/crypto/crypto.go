// package crypto wraps the RSA keypair handling the rest of the code needs.
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
)

// Keypair is a public/private keypair in PEM format.
type Keypair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// GenerateRSAKeypair generates a new 2048 bit RSA keypair.
func GenerateRSAKeypair() (*Keypair, error) {
	private, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	public, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		return nil, err
	}
	return &Keypair{
		PublicKey:  encodePEM("PUBLIC KEY", public),
		PrivateKey: encodePEM("RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(private)),
	}, nil
}

func encodePEM(blockType string, der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  blockType,
		Bytes: der,
	})
}

// ParseRSAPrivateKey parses a PEM encoded private key, and returns the public
// key and private key.
func ParseRSAPrivateKey(pemBytes []byte) (*rsa.PublicKey, *rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil || block.Type != "RSA PRIVATE KEY" {
		return nil, nil, errors.New("expected RSA PRIVATE KEY")
	}

	parsed, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		// PKCS8 returns an interface{}, not a concrete key type
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, nil, err
		}
		var ok bool
		if parsed, ok = key.(*rsa.PrivateKey); !ok {
			return nil, nil, errors.New("expected *rsa.PrivateKey")
		}
	}
	return &parsed.PublicKey, parsed, nil
}
