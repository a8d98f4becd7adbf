// Package cryptox implements the authenticated encryption of file content at
// rest: AES-256-GCM with a fresh nonce per call. Ciphertext goes to the blob
// store as raw bytes; the iv and auth tag ride along hex-encoded in the file
// record, and the triple must travel together.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// NonceSize is the GCM-recommended 12-byte nonce length.
	NonceSize = 12
	// TagSize is the GCM auth tag length appended by Seal.
	TagSize = 16
	// KeySize is the AES-256 key length.
	KeySize = 32
)

// ErrAuthenticationFailed means the ciphertext/tag pair did not verify under
// the key: tampered content, a mismatched envelope, or the wrong key. Nothing
// decrypted on this path may be shown or persisted.
var ErrAuthenticationFailed = errors.New("cryptox: ciphertext authentication failed")

// Envelope carries the hex-encoded iv and auth tag for one ciphertext.
type Envelope struct {
	IV      string
	AuthTag string
}

// Encrypt seals plaintext under a 32-byte key with a random 12-byte nonce.
// The nonce is never reused: each call draws a fresh one, which GCM requires
// for both confidentiality and integrity.
func Encrypt(plaintext, key []byte) ([]byte, Envelope, error) {
	if len(key) != KeySize {
		return nil, Envelope{}, fmt.Errorf("cryptox: key must be %d bytes, got %d", KeySize, len(key))
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, Envelope{}, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, Envelope{}, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, Envelope{}, err
	}

	sealed := aesgcm.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - TagSize

	env := Envelope{
		IV:      hex.EncodeToString(nonce),
		AuthTag: hex.EncodeToString(sealed[split:]),
	}
	return sealed[:split], env, nil
}

// Decrypt opens ciphertext against its envelope. Any malformed field or tag
// mismatch fails closed with ErrAuthenticationFailed; partial plaintext is
// never returned.
func Decrypt(ciphertext []byte, env Envelope, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("cryptox: key must be %d bytes, got %d", KeySize, len(key))
	}

	nonce, err := hex.DecodeString(env.IV)
	if err != nil || len(nonce) != NonceSize {
		return nil, ErrAuthenticationFailed
	}
	tag, err := hex.DecodeString(env.AuthTag)
	if err != nil || len(tag) != TagSize {
		return nil, ErrAuthenticationFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
