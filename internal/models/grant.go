package models

import (
	"time"

	"github.com/google/uuid"
)

type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

// Satisfies reports whether holding p is enough for an operation that
// requires required. Write subsumes read.
func (p Permission) Satisfies(required Permission) bool {
	if p == required {
		return true
	}
	return p == PermissionWrite && required == PermissionRead
}

// AccessGrant authorizes one user on one file. The owner gets a write grant
// at upload time; share-token redeemers get theirs at redemption.
type AccessGrant struct {
	UserID     uuid.UUID  `json:"userId" gorm:"type:uuid;primaryKey"`
	FileID     uuid.UUID  `json:"fileId" gorm:"type:uuid;primaryKey"`
	Permission Permission `json:"permission" gorm:"type:text;not null;default:'read'"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"autoCreateTime"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	File File `json:"-" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

func (AccessGrant) TableName() string { return "user_files" }
