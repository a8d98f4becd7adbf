package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session binds a token id to the device and network origin it was issued
// for, so a token can be voided before its signature expires.
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	JWTID     string    `json:"jwtId" gorm:"column:jwt_id;uniqueIndex;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	IPAddress string    `json:"ipAddress" gorm:"not null"`
	DeviceID  string    `json:"deviceId" gorm:"not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	Revoked   bool      `json:"revoked" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Active reports whether the session still admits requests. Revocation is
// one-way and beats any remaining token lifetime.
func (s *Session) Active(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
