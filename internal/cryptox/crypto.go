// Package cryptox holds the primitives behind the encrypted secure store:
// argon2id key derivation and AES-GCM sealing of individual values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length of derived store keys (AES-256).
const KeySize = 32

// ErrEmptySecret is returned when a store key is requested for an empty secret.
var ErrEmptySecret = errors.New("empty secret")

// DeriveStoreKey stretches the device secret with argon2id using the
// per-store salt. The same (secret, salt) pair always yields the same key.
func DeriveStoreKey(secret []byte, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize), nil
}

// Seal encrypts plaintext with AES-GCM. A fresh random nonce is generated
// for every call and returned next to the ciphertext. The additional data
// binds the ciphertext to its storage key so values cannot be swapped
// between rows.
func Seal(plaintext, key, additionalData []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, additionalData), nonce, nil
}

// Open reverses Seal. It fails if the key, nonce or additional data differ
// from the ones used for sealing.
func Open(ciphertext, nonce, key, additionalData []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, nonce, ciphertext, additionalData)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
