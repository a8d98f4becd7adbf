package cryptox

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)

	cases := []struct {
		name      string
		plaintext []byte
	}{
		{"text", []byte("collaborative notes, draft 4")},
		{"empty", []byte{}},
		{"binary", bytes.Repeat([]byte{0x00, 0xff, 0x7f}, 1000)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ciphertext, env, err := Encrypt(tc.plaintext, key)
			require.NoError(t, err)

			iv, err := hex.DecodeString(env.IV)
			require.NoError(t, err)
			assert.Len(t, iv, NonceSize)

			tag, err := hex.DecodeString(env.AuthTag)
			require.NoError(t, err)
			assert.Len(t, tag, TagSize)

			got, err := Decrypt(ciphertext, env, key)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tc.plaintext, got), "round-trip mismatch: got %x", got)
		})
	}
}

func TestEncryptFreshNoncePerCall(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("same input twice")

	firstCT, firstEnv, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	secondCT, secondEnv, err := Encrypt(plaintext, key)
	require.NoError(t, err)

	assert.NotEqual(t, firstEnv.IV, secondEnv.IV)
	assert.NotEqual(t, firstCT, secondCT)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	ciphertext, env, err := Encrypt([]byte("secret"), testKey(t))
	require.NoError(t, err)

	plaintext, err := Decrypt(ciphertext, env, testKey(t))
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, plaintext)
}

func TestDecryptTamperedInputFails(t *testing.T) {
	key := testKey(t)
	ciphertext, env, err := Encrypt([]byte("do not touch"), key)
	require.NoError(t, err)

	flipHex := func(s string) string {
		b, err := hex.DecodeString(s)
		require.NoError(t, err)
		b[0] ^= 0x01
		return hex.EncodeToString(b)
	}

	t.Run("corrupted ciphertext", func(t *testing.T) {
		bad := append([]byte{}, ciphertext...)
		bad[0] ^= 0x01
		_, err := Decrypt(bad, env, key)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("corrupted tag", func(t *testing.T) {
		bad := env
		bad.AuthTag = flipHex(env.AuthTag)
		_, err := Decrypt(ciphertext, bad, key)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("corrupted iv", func(t *testing.T) {
		bad := env
		bad.IV = flipHex(env.IV)
		_, err := Decrypt(ciphertext, bad, key)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("tag not hex", func(t *testing.T) {
		bad := env
		bad.AuthTag = "zz" + env.AuthTag[2:]
		_, err := Decrypt(ciphertext, bad, key)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("truncated tag", func(t *testing.T) {
		bad := env
		bad.AuthTag = env.AuthTag[:4]
		_, err := Decrypt(ciphertext, bad, key)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}

func TestMismatchedTripleFails(t *testing.T) {
	key := testKey(t)

	ctA, envA, err := Encrypt([]byte("file a"), key)
	require.NoError(t, err)
	_, envB, err := Encrypt([]byte("file b"), key)
	require.NoError(t, err)

	// An iv borrowed from another valid envelope must not yield either
	// plaintext.
	envA.IV = envB.IV
	plaintext, err := Decrypt(ctA, envA, key)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, plaintext)
}

func TestKeyLengthEnforced(t *testing.T) {
	_, _, err := Encrypt([]byte("x"), []byte("short"))
	assert.Error(t, err)

	_, err = Decrypt([]byte("x"), Envelope{}, []byte("short"))
	assert.Error(t, err)
}
