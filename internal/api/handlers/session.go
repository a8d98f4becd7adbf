package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rohits-web03/collabdrive/internal/api/middleware"
	"github.com/rohits-web03/collabdrive/internal/repositories"
	"github.com/rohits-web03/collabdrive/internal/sessions"
	"github.com/rohits-web03/collabdrive/internal/utils"
)

// VerifySession godoc
// @Summary Check whether the presented token still maps to a live session
// @Description Public endpoint: an expired or revoked token answers valid=false instead of 401, so clients can probe before retrying.
// @Tags Sessions
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /sessions/verify [get]
func VerifySession(w http.ResponseWriter, r *http.Request) {
	invalid := func() {
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: true,
			Message: "Session verified",
			Data:    map[string]any{"valid": false},
		})
	}

	raw, ok := middleware.BearerToken(r)
	if !ok {
		invalid()
		return
	}

	claims, err := tokens.Verify(raw)
	if err != nil {
		invalid()
		return
	}

	valid, err := sessions.ValidateJTI(repositories.DB, claims.ID, utils.ClientIP(r), r.UserAgent())
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to verify session",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Session verified",
		Data:    map[string]any{"valid": valid},
	})
}

// ValidateSession godoc
// @Summary Validate a session for an explicit ip and device pair
// @Description Used by peer services holding a user id rather than a token.
// @Tags Sessions
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /session/validate [post]
func ValidateSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	var input struct {
		IP       string `json:"ip"`
		DeviceID string `json:"deviceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.IP == "" || input.DeviceID == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "ip and deviceId are required",
		})
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	valid, err := sessions.ValidateUser(repositories.DB, userID, input.IP, input.DeviceID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to validate session",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Session validated",
		Data:    map[string]any{"valid": valid},
	})
}
