// Package cryptox implements the sealing primitives for the encrypted
// file-backed secret store: a device key stretched from a local keyfile
// and AES-GCM seal/open over raw values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize   = 16
	secretSize = 32
	keySize    = 32
)

var ErrMalformedKeyFile = errors.New("malformed key file")

// DeriveKey stretches a secret and salt into a 256-bit AES key using
// argon2id.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, keySize)
}

// Seal encrypts plaintext with AES-GCM under key and returns
// nonce||ciphertext. A fresh random nonce is generated per call.
func Seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return append(nonce, aesgcm.Seal(nil, nonce, plaintext, nil)...), nil
}

// Open reverses Seal: it splits the nonce off sealed and decrypts the
// remainder under key.
func Open(key, sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aesgcm.NonceSize() {
		return nil, fmt.Errorf("sealed value too short: %d bytes", len(sealed))
	}
	nonce, ciphertext := sealed[:aesgcm.NonceSize()], sealed[aesgcm.NonceSize():]

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

// LoadOrCreateKey returns the device key for the keyfile at path,
// creating the file (0600, salt||secret) on first use. The key itself is
// never written to disk; it is re-derived from the file contents.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		data = make([]byte, saltSize+secretSize)
		if _, err := rand.Read(data); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return nil, fmt.Errorf("writing key file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	if len(data) != saltSize+secretSize {
		return nil, ErrMalformedKeyFile
	}

	return DeriveKey(data[saltSize:], data[:saltSize]), nil
}
