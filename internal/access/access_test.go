package access

import (
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rohits-web03/collabdrive/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.File{},
		&models.AccessGrant{},
		&models.Share{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Tester", Email: email, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedFile(t *testing.T, db *gorm.DB, owner models.User, name string) models.File {
	t.Helper()
	file := models.File{
		Name:       name,
		Type:       "text/plain",
		Size:       42,
		StorageKey: uuid.NewString() + ".txt",
		OwnerID:    owner.ID,
	}
	require.NoError(t, db.Create(&file).Error)
	require.NoError(t, GrantOwner(db, owner.ID, file.ID))
	return file
}

func TestCreateShare(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	file := seedFile(t, db, owner, "notes.txt")

	t.Run("mints a namespaced token", func(t *testing.T) {
		token, err := CreateShare(db, owner.ID, file.ID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, shareTokenPrefix))
	})

	t.Run("second call returns the identical token", func(t *testing.T) {
		first, err := CreateShare(db, owner.ID, file.ID)
		require.NoError(t, err)
		second, err := CreateShare(db, owner.ID, file.ID)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		var count int64
		require.NoError(t, db.Model(&models.Share{}).Where("file_id = ?", file.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := CreateShare(db, stranger.ID, file.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing file is forbidden", func(t *testing.T) {
		_, err := CreateShare(db, owner.ID, uuid.New())
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRedeem(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	joiner := seedUser(t, db, "joiner@example.com")
	file := seedFile(t, db, owner, "notes.txt")

	token, err := CreateShare(db, owner.ID, file.ID)
	require.NoError(t, err)

	t.Run("unknown token is not found", func(t *testing.T) {
		err := Redeem(db, joiner.ID, shareTokenPrefix+"nonexistent")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired token is indistinguishable from unknown", func(t *testing.T) {
		staleFile := seedFile(t, db, owner, "old.txt")
		past := time.Now().Add(-time.Hour)
		stale := models.Share{FileID: staleFile.ID, Token: shareTokenPrefix + "stale", ExpiresAt: &past}
		require.NoError(t, db.Create(&stale).Error)

		err := Redeem(db, joiner.ID, stale.Token)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("valid token grants write access", func(t *testing.T) {
		require.NoError(t, Redeem(db, joiner.ID, token))

		ok, err := Check(db, joiner.ID, file.ID, models.PermissionWrite)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second redemption reports the existing grant", func(t *testing.T) {
		err := Redeem(db, joiner.ID, token)
		assert.ErrorIs(t, err, ErrAlreadyGranted)
	})

	t.Run("owner redeeming their own token already holds a grant", func(t *testing.T) {
		err := Redeem(db, owner.ID, token)
		assert.ErrorIs(t, err, ErrAlreadyGranted)
	})
}

func TestRequireFile(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	file := seedFile(t, db, owner, "notes.txt")

	t.Run("owner reaches the file", func(t *testing.T) {
		got, err := RequireFile(db, owner.ID, file.ID, models.PermissionWrite)
		require.NoError(t, err)
		assert.Equal(t, file.ID, got.ID)
	})

	t.Run("no grant and missing file look the same", func(t *testing.T) {
		_, err := RequireFile(db, stranger.ID, file.ID, models.PermissionRead)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = RequireFile(db, owner.ID, uuid.New(), models.PermissionRead)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestListFiles(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	joiner := seedUser(t, db, "joiner@example.com")
	shared := seedFile(t, db, owner, "shared.txt")
	private := seedFile(t, db, owner, "private.txt")

	token, err := CreateShare(db, owner.ID, shared.ID)
	require.NoError(t, err)
	require.NoError(t, Redeem(db, joiner.ID, token))

	t.Run("owner sees both with share annotation", func(t *testing.T) {
		entries, err := ListFiles(db, owner.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		byID := map[uuid.UUID]FileEntry{}
		for _, e := range entries {
			byID[e.ID] = e
		}
		assert.True(t, byID[shared.ID].IsShared)
		assert.False(t, byID[private.ID].IsShared)
	})

	t.Run("joiner sees only the granted file", func(t *testing.T) {
		entries, err := ListFiles(db, joiner.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, shared.ID, entries[0].ID)
		assert.True(t, entries[0].IsShared)
	})
}
