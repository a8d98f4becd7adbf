package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/collabdrive/internal/access"
	"github.com/rohits-web03/collabdrive/internal/api/middleware"
	"github.com/rohits-web03/collabdrive/internal/config"
	"github.com/rohits-web03/collabdrive/internal/cryptox"
	"github.com/rohits-web03/collabdrive/internal/enrich"
	"github.com/rohits-web03/collabdrive/internal/models"
	"github.com/rohits-web03/collabdrive/internal/repositories"
	"github.com/rohits-web03/collabdrive/internal/utils"
	"gorm.io/gorm"
)

const maxUploadSize = 50 << 20 // 50 MB

// ListFiles godoc
// @Summary List files the caller owns or was granted access to
// @Tags Files
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /files [get]
func ListFiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	entries, err := access.ListFiles(repositories.DB, userID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to fetch files",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Files retrieved successfully",
		Data:    map[string]any{"files": entries},
	})
}

// UploadFile godoc
// @Summary Upload a file
// @Description Stores the payload in the blob store under a server-generated key. Plain-text payloads are encrypted at rest.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /files/upload [post]
func UploadFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file upload form",
		})
		return
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "No file provided",
		})
		return
	}
	defer src.Close()

	plaintext, err := io.ReadAll(src)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to read upload",
		})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(plaintext)
	}

	// Plain text is protected at rest from the start; other types keep raw
	// bytes so ranged delivery stays possible.
	stored := plaintext
	var envelope cryptox.Envelope
	encrypted := false
	if mimeType == "text/plain" {
		stored, envelope, err = cryptox.Encrypt(plaintext, config.Envs.EncryptionKey)
		if err != nil {
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Failed to encrypt file",
			})
			return
		}
		encrypted = true
	}

	storageKey := uuid.NewString() + filepath.Ext(header.Filename)
	if err := repositories.PutObject(r.Context(), storageKey, stored, mimeType); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to store file",
		})
		return
	}

	file := models.File{
		Name:       header.Filename,
		Type:       mimeType,
		Size:       header.Size,
		StorageKey: storageKey,
		IV:         envelope.IV,
		AuthTag:    envelope.AuthTag,
		Encrypted:  encrypted,
		OwnerID:    userID,
	}

	err = repositories.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&file).Error; err != nil {
			return err
		}
		return access.GrantOwner(tx, userID, file.ID)
	})
	if err != nil {
		// The blob is already written; remove it so a failed upload leaves
		// no dangling artifact.
		if cleanupErr := repositories.DeleteObject(r.Context(), storageKey); cleanupErr != nil {
			log.Printf("Failed to clean up blob %s after upload error: %v", storageKey, cleanupErr)
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to store file",
		})
		return
	}

	if variant := enrich.ForMIME(mimeType); variant != nil {
		go func(file models.File, data []byte) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := variant.Enrich(ctx, repositories.DB, file, data); err != nil {
				log.Printf("Metadata enrichment failed for file %s: %v", file.ID, err)
			}
		}(file, plaintext)
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "File uploaded successfully",
		Data: map[string]any{
			"file":     file,
			"isShared": false,
		},
	})
}

// fileIDFromPath parses the {id} path segment.
func fileIDFromPath(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}

// GetContent godoc
// @Summary Fetch a file's content, decrypted when protected at rest
// @Tags Files
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /files/{id}/content [get]
func GetContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	fileID, ok := fileIDFromPath(r)
	if !ok {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file id",
		})
		return
	}

	file, err := access.RequireFile(repositories.DB, userID, fileID, models.PermissionRead)
	if err != nil {
		respondAccessError(w, err)
		return
	}

	stored, err := repositories.ReadAllObject(r.Context(), file.StorageKey)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to get file content",
		})
		return
	}

	content := stored
	if file.HasEnvelope() {
		content, err = cryptox.Decrypt(stored, cryptox.Envelope{IV: file.IV, AuthTag: file.AuthTag}, config.Envs.EncryptionKey)
		if err != nil {
			// Tag mismatch is fatal: no partial plaintext ever leaves here.
			log.Printf("Decryption failed for file %s: %v", file.ID, err)
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Failed to get file content",
			})
			return
		}
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "OK",
		Data:    map[string]any{"content": string(content)},
	})
}

// UpdateContent godoc
// @Summary Replace a file's content
// @Description Requires write access. Content is always re-encrypted, so a file uploaded unprotected becomes protected on first edit.
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /files/{id}/content [put]
func UpdateContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	fileID, ok := fileIDFromPath(r)
	if !ok {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file id",
		})
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Content == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Content is required",
		})
		return
	}

	file, err := access.RequireFile(repositories.DB, userID, fileID, models.PermissionWrite)
	if err != nil {
		respondAccessError(w, err)
		return
	}

	ciphertext, envelope, err := cryptox.Encrypt([]byte(input.Content), config.Envs.EncryptionKey)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to encrypt content",
		})
		return
	}

	if err := repositories.PutObject(r.Context(), file.StorageKey, ciphertext, file.Type); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to update file content",
		})
		return
	}

	err = repositories.DB.Model(&models.File{}).
		Where("id = ?", file.ID).
		Updates(map[string]any{
			"iv":        envelope.IV,
			"auth_tag":  envelope.AuthTag,
			"encrypted": true,
			"size":      int64(len(input.Content)),
		}).Error
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to update file content",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File content updated successfully",
	})
}

// DeleteFile godoc
// @Summary Delete a file the caller owns
// @Tags Files
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /files/{id} [delete]
func DeleteFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	fileID, ok := fileIDFromPath(r)
	if !ok {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file id",
		})
		return
	}

	if err := access.DeleteFile(r.Context(), repositories.DB, userID, fileID); err != nil {
		if errors.Is(err, access.ErrForbidden) {
			utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
				Success: false,
				Message: "You can only delete files you own",
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to delete file",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File deleted successfully",
	})
}

// respondAccessError maps access-control failures onto the response
// contract. Forbidden deliberately covers missing files on content paths.
func respondAccessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, access.ErrForbidden):
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "You do not have access to this file",
		})
	case errors.Is(err, access.ErrNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Not found",
		})
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Internal server error",
		})
	}
}
