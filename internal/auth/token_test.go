package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rohits-web03/collabdrive/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, lifetime time.Duration) *TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewTokenService(key, &key.PublicKey, lifetime)
}

func testUser() models.User {
	return models.User{
		ID:    uuid.New(),
		Name:  "Ada",
		Email: "ada@example.com",
	}
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestService(t, time.Hour)
	user := testUser()

	token, jti, expiresAt, err := svc.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, jti, claims.ID)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTestService(t, time.Hour)
	svc.lifetime = -time.Minute

	token, _, _, err := svc.Issue(testUser())
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestVerifyWrongKey(t *testing.T) {
	issuer := newTestService(t, time.Hour)
	verifier := newTestService(t, time.Hour)

	token, _, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsNonRS256(t *testing.T) {
	svc := newTestService(t, time.Hour)

	hsToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("guessable"))
	require.NoError(t, err)

	_, err = svc.Verify(hsToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	for _, token := range []string{"", "not.a.jwt", "a.b"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestIssueUniqueJTI(t *testing.T) {
	svc := newTestService(t, time.Hour)
	user := testUser()

	_, first, _, err := svc.Issue(user)
	require.NoError(t, err)
	_, second, _, err := svc.Issue(user)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
