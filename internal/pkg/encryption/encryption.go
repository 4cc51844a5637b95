// Package encryption seals secured variable values at rest.
//
// Every sealed value is bound to the slot it was written to (secret name and
// variable name), so a value copied into another slot fails to open.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

const (
	aesPrefix   = "v1:"
	plainPrefix = "plain:"
)

// ErrMalformed is returned when a sealed value was not produced by the
// sealer opening it.
var ErrMalformed = errors.New("malformed sealed value")

// Sealer seals and opens values stored under a slot.
type Sealer interface {
	// Seal encrypts plaintext for slot.
	Seal(slot, plaintext string) (string, error)

	// Open decrypts a value previously sealed for slot.
	Open(slot, sealed string) (string, error)
}

// Slot names the storage location of one variable.
func Slot(secret, variable string) string {
	return secret + "/" + variable
}

// AESSealer implements Sealer using AES-256-GCM with the slot as
// additional authenticated data.
type AESSealer struct {
	gcm cipher.AEAD
}

// NewAESSealer creates a sealer from a base64 encoded or raw 32 byte key.
func NewAESSealer(key string) (*AESSealer, error) {
	keyBytes, err := base64.StdEncoding.DecodeString(key)
	if err != nil || len(keyBytes) != KeySize {
		keyBytes = []byte(key)
	}
	if len(keyBytes) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(keyBytes))
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESSealer{gcm: gcm}, nil
}

// Seal returns "v1:" followed by base64(nonce || ciphertext).
func (s *AESSealer) Seal(slot, plaintext string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := s.gcm.Seal(nonce, nonce, []byte(plaintext), []byte(slot))
	return aesPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. It fails if the value was sealed for another slot.
func (s *AESSealer) Open(slot, sealed string) (string, error) {
	encoded, ok := strings.CutPrefix(sealed, aesPrefix)
	if !ok {
		return "", ErrMalformed
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: too short", ErrMalformed)
	}

	plaintext, err := s.gcm.Open(nil, data[:nonceSize], data[nonceSize:], []byte(slot))
	if err != nil {
		return "", fmt.Errorf("failed to open value for %s: %w", slot, err)
	}
	return string(plaintext), nil
}

// GenerateKey returns a new random base64 encoded AES-256 key.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// PlainSealer only encodes values. Use it for local development.
type PlainSealer struct{}

// NewPlainSealer creates a sealer that does not encrypt.
func NewPlainSealer() *PlainSealer {
	return &PlainSealer{}
}

// Seal base64 encodes plaintext.
func (PlainSealer) Seal(_, plaintext string) (string, error) {
	return plainPrefix + base64.StdEncoding.EncodeToString([]byte(plaintext)), nil
}

// Open decodes a value produced by Seal.
func (PlainSealer) Open(_, sealed string) (string, error) {
	encoded, ok := strings.CutPrefix(sealed, plainPrefix)
	if !ok {
		return "", ErrMalformed
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return string(data), nil
}

var (
	_ Sealer = (*AESSealer)(nil)
	_ Sealer = (*PlainSealer)(nil)
)
