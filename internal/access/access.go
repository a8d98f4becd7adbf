// Package access enforces the per-file permission table and the share-token
// mint/redeem flow.
package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/collabdrive/internal/models"
	"github.com/rohits-web03/collabdrive/internal/repositories"
	"github.com/rohits-web03/collabdrive/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrForbidden covers both "no grant" and "file does not exist" on
	// content paths, so a probe cannot confirm a file id.
	ErrForbidden = errors.New("access: forbidden")
	// ErrNotFound is used only where leaking existence is acceptable
	// (unknown or expired share tokens).
	ErrNotFound = errors.New("access: not found")
	// ErrAlreadyGranted means the redeemer already holds a grant.
	ErrAlreadyGranted = errors.New("access: already granted")
)

// shareTokenPrefix namespaces share tokens so they cannot collide with other
// token types floating around the system.
const shareTokenPrefix = "cdrv_share_"

// FileEntry is one row of a user's file listing. IsShared reports whether an
// active share token exists for the file, not whether this viewer redeemed
// one.
type FileEntry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	OwnerID   uuid.UUID `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsShared  bool      `json:"isShared"`
}

// ListFiles returns the union of files the user owns and files reachable
// through a grant, newest activity first.
func ListFiles(db *gorm.DB, userID uuid.UUID) ([]FileEntry, error) {
	var entries []FileEntry
	err := db.Table("files").
		Select("files.id, files.name, files.type, files.size, files.owner_id, files.created_at, files.updated_at, shares.id IS NOT NULL AS is_shared").
		Joins("LEFT JOIN shares ON shares.file_id = files.id").
		Where("files.owner_id = ? OR files.id IN (SELECT file_id FROM user_files WHERE user_id = ?)", userID, userID).
		Order("files.updated_at DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Check reports whether the user holds a grant on the file that satisfies
// the required permission.
func Check(db *gorm.DB, userID, fileID uuid.UUID, required models.Permission) (bool, error) {
	var grant models.AccessGrant
	err := db.Where("user_id = ? AND file_id = ?", userID, fileID).First(&grant).Error
	switch {
	case err == nil:
		return grant.Permission.Satisfies(required), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

// RequireFile loads a file the user may act on with the required permission.
// Missing file and missing grant both come back as ErrForbidden.
func RequireFile(db *gorm.DB, userID, fileID uuid.UUID, required models.Permission) (*models.File, error) {
	ok, err := Check(db, userID, fileID, required)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	var file models.File
	if err := db.First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return &file, nil
}

// GrantOwner inserts the owner's write grant for a freshly uploaded file.
func GrantOwner(tx *gorm.DB, ownerID, fileID uuid.UUID) error {
	grant := models.AccessGrant{
		UserID:     ownerID,
		FileID:     fileID,
		Permission: models.PermissionWrite,
	}
	return tx.Create(&grant).Error
}

// CreateShare mints the share token for a file the caller owns. Idempotent:
// a second call returns the existing token instead of a duplicate.
func CreateShare(db *gorm.DB, userID, fileID uuid.UUID) (string, error) {
	var file models.File
	err := db.Where("id = ? AND owner_id = ?", fileID, userID).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrForbidden
	}
	if err != nil {
		return "", err
	}

	var existing models.Share
	err = db.Where("file_id = ?", fileID).First(&existing).Error
	if err == nil {
		return existing.Token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	raw, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", err
	}
	share := models.Share{
		FileID: fileID,
		Token:  shareTokenPrefix + raw,
	}
	if err := db.Create(&share).Error; err != nil {
		return "", err
	}
	return share.Token, nil
}

// GetShare returns the active share token for a file the caller owns, or
// ErrNotFound when the file has never been shared.
func GetShare(db *gorm.DB, userID, fileID uuid.UUID) (string, error) {
	var file models.File
	err := db.Where("id = ? AND owner_id = ?", fileID, userID).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrForbidden
	}
	if err != nil {
		return "", err
	}

	var share models.Share
	err = db.Where("file_id = ?", fileID).First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return share.Token, nil
}

// Redeem exchanges a share token for a write grant. Expired and unknown
// tokens are indistinguishable to the caller.
func Redeem(db *gorm.DB, userID uuid.UUID, token string) error {
	var share models.Share
	err := db.Where("token = ?", token).First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if share.Expired(time.Now()) {
		return ErrNotFound
	}

	var existing models.AccessGrant
	err = db.Where("user_id = ? AND file_id = ?", userID, share.FileID).First(&existing).Error
	if err == nil {
		return ErrAlreadyGranted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	grant := models.AccessGrant{
		UserID:     userID,
		FileID:     share.FileID,
		Permission: models.PermissionWrite,
	}
	return db.Create(&grant).Error
}

// DeleteFile removes a file the caller owns: blob first, then the row (grants
// and shares cascade with it). The two deletes are not transactional; the
// blob delete is idempotent so a retry after partial failure is safe.
func DeleteFile(ctx context.Context, db *gorm.DB, userID, fileID uuid.UUID) error {
	var file models.File
	err := db.Where("id = ? AND owner_id = ?", fileID, userID).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return err
	}

	if err := repositories.DeleteObject(ctx, file.StorageKey); err != nil {
		return fmt.Errorf("deleting blob %s: %w", file.StorageKey, err)
	}

	return db.Delete(&models.File{}, "id = ?", fileID).Error
}
