// Package auth issues and verifies the asymmetric-signature tokens that
// carry identity claims. It is stateless: revocation lives in the session
// registry, not here.
package auth

import (
	"crypto/rsa"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rohits-web03/collabdrive/internal/models"
)

// DefaultTokenLifetime is how long an issued token stays verifiable.
const DefaultTokenLifetime = 7 * 24 * time.Hour

// ErrInvalidToken covers every verification failure: bad signature,
// malformed input, wrong algorithm, or expiry.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Claims carried by an issued token. Subject is the user id and ID the jti
// that the session registry keys on.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	lifetime   time.Duration
}

func NewTokenService(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, lifetime time.Duration) *TokenService {
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenService{privateKey: privateKey, publicKey: publicKey, lifetime: lifetime}
}

// LoadTokenService reads the RS256 keypair from PEM files.
func LoadTokenService(privateKeyPath, publicKeyPath string, lifetime time.Duration) (*TokenService, error) {
	privPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, err
	}
	pubPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, err
	}

	return NewTokenService(privateKey, publicKey, lifetime), nil
}

// Issue signs a token for the user and returns it with the jti the caller
// must record in the session registry.
func (s *TokenService) Issue(user models.User) (token string, jti string, expiresAt time.Time, err error) {
	jti = uuid.NewString()
	expiresAt = time.Now().Add(s.lifetime)

	claims := &Claims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, jti, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
