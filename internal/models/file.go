package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type File struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Type       string    `json:"type" gorm:"not null"` // declared MIME type
	Size       int64     `json:"size" gorm:"not null"` // bytes
	StorageKey string    `json:"-" gorm:"not null"`    // opaque blob-store key, never the client filename
	IV         string    `json:"-"`                    // hex, set only for protected-at-rest content
	AuthTag    string    `json:"-"`
	Encrypted  bool      `json:"encrypted" gorm:"default:false"`
	OwnerID    uuid.UUID `json:"ownerId" gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

// HasEnvelope reports whether the file carries a complete encryption
// envelope. The iv and auth tag travel together; a file with only one of
// them set is treated as unprotected rather than half-decryptable.
func (f *File) HasEnvelope() bool {
	return f.Encrypted && f.IV != "" && f.AuthTag != ""
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
