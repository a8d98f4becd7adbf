package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rohits-web03/collabdrive/internal/access"
	"github.com/rohits-web03/collabdrive/internal/api/middleware"
	"github.com/rohits-web03/collabdrive/internal/repositories"
	"github.com/rohits-web03/collabdrive/internal/utils"
)

// CreateShare godoc
// @Summary Issue a share token for a file
// @Description Owner-only. Reissues the existing token when one is already active, so a file maps to a single share link.
// @Tags Share
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /files/{id}/share [post]
func CreateShare(w http.ResponseWriter, r *http.Request) {
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

	token, err := access.CreateShare(repositories.DB, userID, fileID)
	if err != nil {
		if errors.Is(err, access.ErrForbidden) {
			utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
				Success: false,
				Message: "You can only share files you own",
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create share link",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Share token created successfully",
		Data:    map[string]any{"token": token},
	})
}

// GetShareToken godoc
// @Summary Fetch the active share token for a file
// @Tags Share
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /files/{id}/share [get]
func GetShareToken(w http.ResponseWriter, r *http.Request) {
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

	token, err := access.GetShare(repositories.DB, userID, fileID)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrForbidden):
			utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
				Success: false,
				Message: "You can only view share tokens for files you own",
			})
		case errors.Is(err, access.ErrNotFound):
			utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
				Success: false,
				Message: "No share token exists for this file",
			})
		default:
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Failed to fetch share token",
			})
		}
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Share token retrieved successfully",
		Data:    map[string]any{"token": token},
	})
}

// JoinTeam godoc
// @Summary Redeem a share token for write access
// @Tags Share
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload "Unknown or expired token"
// @Failure 409 {object} utils.Payload "Caller already has access"
// @Router /files/join-team [post]
func JoinTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	var input struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Token == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Share token is required",
		})
		return
	}

	if err := access.Redeem(repositories.DB, userID, input.Token); err != nil {
		switch {
		case errors.Is(err, access.ErrNotFound):
			utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
				Success: false,
				Message: "Invalid or expired share token",
			})
		case errors.Is(err, access.ErrAlreadyGranted):
			utils.JSONResponse(w, http.StatusConflict, utils.Payload{
				Success: false,
				Message: "You already have access to this file",
			})
		default:
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Failed to join team",
			})
		}
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Access granted successfully",
	})
}
