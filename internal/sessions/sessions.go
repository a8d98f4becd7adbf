// Package sessions is the server-side registry of live logins. Tokens are
// never trusted on their own where revocation matters: the caller checks the
// token signature first, then asks this registry whether the session behind
// the jti (or subject) is still admitted from that ip and device.
package sessions

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/collabdrive/internal/models"
	"gorm.io/gorm"
)

// Create records a new session alongside a freshly issued token.
func Create(db *gorm.DB, userID uuid.UUID, jti, ip, deviceID string, expiresAt time.Time) error {
	session := models.Session{
		JWTID:     jti,
		UserID:    userID,
		IPAddress: ip,
		DeviceID:  deviceID,
		ExpiresAt: expiresAt,
	}
	return db.Create(&session).Error
}

// ValidateJTI reports whether a live session exists for this token id bound
// to the given origin. A missing row is a normal "not logged in here"
// outcome, not an error.
func ValidateJTI(db *gorm.DB, jti, ip, deviceID string) (bool, error) {
	return validate(db, db.Where("jwt_id = ?", jti), ip, deviceID)
}

// ValidateUser is the alternate lookup for call sites that only hold the
// decoded subject, not the jti.
func ValidateUser(db *gorm.DB, userID uuid.UUID, ip, deviceID string) (bool, error) {
	return validate(db, db.Where("user_id = ?", userID), ip, deviceID)
}

func validate(db *gorm.DB, scope *gorm.DB, ip, deviceID string) (bool, error) {
	var session models.Session
	err := scope.
		Where("ip_address = ? AND device_id = ?", ip, deviceID).
		Where("NOT revoked AND expires_at > ?", time.Now()).
		First(&session).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Revoke voids the session for a token id. One-way: there is no un-revoke.
func Revoke(db *gorm.DB, jti string) error {
	return db.Model(&models.Session{}).
		Where("jwt_id = ?", jti).
		Update("revoked", true).Error
}
