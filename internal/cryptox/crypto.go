// Package cryptox provides the key derivation and AEAD primitives used by the
// database codec. Keys are derived with Argon2id and payloads are sealed with
// AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length in bytes of the random Argon2id salt.
	SaltSize = 16
	// NonceSize is the length in bytes of the AES-GCM nonce.
	NonceSize = 12
	// KeySize is the length in bytes of the derived AES-256 key.
	KeySize = 32
)

// ErrAuthFailed indicates that the ciphertext did not authenticate under the
// provided key, i.e. the key is wrong or the data was tampered with.
var ErrAuthFailed = errors.New("authentication failed")

// DeriveMasterKey stretches the raw key material into an AES-256 key using
// Argon2id with the project-wide cost parameters.
func DeriveMasterKey(material []byte, salt []byte) []byte {
	return argon2.IDKey(material, salt, 1, 64*1024, 4, KeySize)
}

// NewSalt returns a fresh random salt for key derivation.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("reading random salt: %w", err)
	}
	return salt, nil
}

// Seal encrypts plaintext with the given key using AES-GCM. A new random
// 12-byte nonce is generated for each call; the ciphertext and nonce are
// returned separately. The key must be KeySize bytes.
func Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("reading random nonce: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Open decrypts ciphertext produced by Seal using the same key and nonce.
// A wrong key or a modified ciphertext yields ErrAuthFailed.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}
