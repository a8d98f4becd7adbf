package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/rohits-web03/collabdrive/internal/access"
	"github.com/rohits-web03/collabdrive/internal/api/middleware"
	"github.com/rohits-web03/collabdrive/internal/config"
	"github.com/rohits-web03/collabdrive/internal/cryptox"
	"github.com/rohits-web03/collabdrive/internal/models"
	"github.com/rohits-web03/collabdrive/internal/repositories"
	"github.com/rohits-web03/collabdrive/internal/utils"
	"gorm.io/gorm"
)

// DownloadFile godoc
// @Summary Download a file's bytes
// @Description Encrypted text is decrypted and served whole as an attachment. Everything else streams from the blob store, honoring a single Range header with 206/416 semantics.
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File id"
// @Param Range header string false "Byte range, e.g. bytes=0-1023"
// @Success 200 {file} binary
// @Success 206 {file} binary
// @Failure 403 {object} utils.Payload
// @Failure 416 {object} nil
// @Router /files/{id}/download [get]
func DownloadFile(w http.ResponseWriter, r *http.Request) {
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

	// The transcoding service account reads any file without a grant; its
	// misses surface as 404 rather than the 403 regular callers get.
	var file *models.File
	var err error
	if config.Envs.ServiceAccountID != "" && userID.String() == config.Envs.ServiceAccountID {
		var f models.File
		err = repositories.DB.Where("id = ?", fileID).First(&f).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
				Success: false,
				Message: "File not found",
			})
			return
		}
		file = &f
	} else {
		file, err = access.RequireFile(repositories.DB, userID, fileID, models.PermissionRead)
	}
	if err != nil {
		respondAccessError(w, err)
		return
	}

	if file.HasEnvelope() {
		serveDecrypted(w, r, file)
		return
	}

	serveRanged(w, r, file)
}

// serveDecrypted sends the whole plaintext as an attachment. Range is
// ignored here: offsets into ciphertext are meaningless to the client.
func serveDecrypted(w http.ResponseWriter, r *http.Request, file *models.File) {
	stored, err := repositories.ReadAllObject(r.Context(), file.StorageKey)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to download file",
		})
		return
	}

	plaintext, err := cryptox.Decrypt(stored, cryptox.Envelope{IV: file.IV, AuthTag: file.AuthTag}, config.Envs.EncryptionKey)
	if err != nil {
		log.Printf("Decryption failed for file %s: %v", file.ID, err)
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to download file",
		})
		return
	}

	w.Header().Set("Content-Type", file.Type)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(plaintext)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(plaintext); err != nil {
		log.Printf("Download aborted for file %s: %v", file.ID, err)
	}
}

// serveRanged streams raw object bytes, whole or partial.
func serveRanged(w http.ResponseWriter, r *http.Request, file *models.File) {
	br, err := parseRange(r.Header.Get("Range"), file.Size)
	if errors.Is(err, errUnsatisfiableRange) {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", file.Size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	var body io.ReadCloser
	if br != nil {
		body, err = repositories.GetObjectRange(r.Context(), file.StorageKey, br.Start, br.End)
	} else {
		body, err = repositories.GetObject(r.Context(), file.StorageKey)
	}
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to download file",
		})
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", file.Type)
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	if br != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", br.Start, br.End, file.Size))
		w.Header().Set("Content-Length", strconv.FormatInt(br.Length(), 10))
		w.WriteHeader(http.StatusPartialContent)
	} else {
		w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
		w.WriteHeader(http.StatusOK)
	}

	// A mid-stream disconnect only loses this response; nothing to roll back.
	if _, err := io.Copy(w, body); err != nil {
		log.Printf("Download aborted for file %s: %v", file.ID, err)
	}
}
