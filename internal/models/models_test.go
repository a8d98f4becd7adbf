package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPermissionSatisfies(t *testing.T) {
	cases := []struct {
		have     Permission
		required Permission
		want     bool
	}{
		{PermissionRead, PermissionRead, true},
		{PermissionRead, PermissionWrite, false},
		{PermissionWrite, PermissionRead, true}, // write implies read
		{PermissionWrite, PermissionWrite, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.have.Satisfies(tc.required),
			"have=%s required=%s", tc.have, tc.required)
	}
}

func TestSessionActive(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name    string
		session Session
		want    bool
	}{
		{"live", Session{ExpiresAt: future}, true},
		{"revoked despite future expiry", Session{ExpiresAt: future, Revoked: true}, false},
		{"expired despite not revoked", Session{ExpiresAt: past}, false},
		{"revoked and expired", Session{ExpiresAt: past, Revoked: true}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.session.Active(now))
		})
	}
}

func TestShareExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&Share{}).Expired(now), "no expiry never expires")
	assert.False(t, (&Share{ExpiresAt: &future}).Expired(now))
	assert.True(t, (&Share{ExpiresAt: &past}).Expired(now))
}

func TestFileHasEnvelope(t *testing.T) {
	assert.True(t, (&File{Encrypted: true, IV: "00", AuthTag: "11"}).HasEnvelope())
	// Partial envelopes never count: the triple travels together or not at all.
	assert.False(t, (&File{Encrypted: true, IV: "00"}).HasEnvelope())
	assert.False(t, (&File{Encrypted: true, AuthTag: "11"}).HasEnvelope())
	assert.False(t, (&File{IV: "00", AuthTag: "11"}).HasEnvelope())
}
