package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rohits-web03/collabdrive/internal/api/middleware"
	"github.com/rohits-web03/collabdrive/internal/models"
	"github.com/rohits-web03/collabdrive/internal/repositories"
	"github.com/rohits-web03/collabdrive/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveMusicMetadata godoc
// @Summary Create or replace music metadata for an owned file
// @Tags Metadata
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /music/metadata [post]
func SaveMusicMetadata(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	var input struct {
		FileID string `json:"fileId"`
		Title  string `json:"title"`
		Artist string `json:"artist"`
		Album  string `json:"album"`
		Cover  string `json:"cover"`
		Lyrics string `json:"lyrics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.FileID == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "fileId is required",
		})
		return
	}

	fileID, err := uuid.Parse(input.FileID)
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid file id",
		})
		return
	}

	var file models.File
	err = repositories.DB.Where("id = ? AND owner_id = ?", fileID, userID).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "You can only edit metadata for files you own",
		})
		return
	}
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to save metadata",
		})
		return
	}

	meta := models.MusicMetadata{
		FileID: fileID,
		Title:  input.Title,
		Artist: input.Artist,
		Album:  input.Album,
		Cover:  input.Cover,
		Lyrics: input.Lyrics,
	}
	err = repositories.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "file_id"}},
		UpdateAll: true,
	}).Create(&meta).Error
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to save metadata",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Metadata saved successfully",
		Data:    map[string]any{"metadata": meta},
	})
}
