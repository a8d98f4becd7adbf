package models

import (
	"time"

	"github.com/google/uuid"
)

// MusicMetadata holds tags extracted from an audio upload. One row per file,
// written by the enrichment step after the upload has committed.
type MusicMetadata struct {
	FileID uuid.UUID `json:"fileId" gorm:"type:uuid;primaryKey"`
	Title  string    `json:"title" gorm:"not null"`
	Artist string    `json:"artist"`
	Album  string    `json:"album"`
	Cover  string    `json:"cover"`  // data URI of embedded artwork
	Lyrics string    `json:"lyrics"` // plain text, optional

	File File `json:"-" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

func (MusicMetadata) TableName() string { return "music_metadata" }

type VideoMetadata struct {
	FileID      uuid.UUID `json:"fileId" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`   // seconds
	Thumbnail   string    `json:"thumbnail"`  // blob-store key of the extracted frame
	Resolution  string    `json:"resolution"` // e.g. 1920x1080
	Codec       string    `json:"codec"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`

	File File `json:"-" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

func (VideoMetadata) TableName() string { return "video_metadata" }
