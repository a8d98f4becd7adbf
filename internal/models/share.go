package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Share is the single active share token for a file. Possession of the token
// grants nothing by itself; redemption inserts an AccessGrant.
type Share struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	FileID    uuid.UUID  `json:"fileId" gorm:"type:uuid;uniqueIndex;not null"`
	Token     string     `json:"token" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	ExpiresAt *time.Time `json:"expiresAt"`

	File File `json:"-" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

// Expired reports whether the share can no longer be redeemed. A share with
// no expiry never expires.
func (s *Share) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

func (s *Share) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
