package ingestion

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	httperr "github.com/meridian-lab/project-meridian/internal/core/errors"
	"github.com/meridian-lab/project-meridian/internal/core/storage"
)

const (
	uploadFormField = "file"

	msgMissingFile    = "A CSV file is required in the 'file' form field"
	msgEmptyFile      = "Uploaded file is empty"
	msgOpenFailed     = "Failed to read uploaded file"
	msgDuplicateRef   = "File contains a reference that already exists"
	msgIngestInternal = "Failed to ingest file"
)

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/cdr/files", s.UploadHandler)
}

// UploadHandler handles HTTP POST multipart uploads of CDR files.
func (s *Service) UploadHandler(c *gin.Context) {
	fileHeader, err := c.FormFile(uploadFormField)
	if err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidUploadError, msgMissingFile, nil)
		return
	}

	if fileHeader.Size == 0 {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidUploadError, msgEmptyFile, nil)
		return
	}

	if fileHeader.Size > s.maxUploadBytes {
		slog.Warn("Upload exceeds maximum size", "size", fileHeader.Size, "max", s.maxUploadBytes)
		writeError(c, http.StatusRequestEntityTooLarge, httperr.HttpInvalidUploadError,
			"Uploaded file exceeds maximum allowed size",
			map[string]interface{}{"max_size_mb": s.maxUploadBytes / (1024 * 1024)})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		slog.Error("Failed to open uploaded file", "error", err, "filename", fileHeader.Filename)
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgOpenFailed, nil)
		return
	}
	defer f.Close()

	uploadID := uuid.NewString()
	slog.Info("Received CDR file",
		"upload_id", uploadID,
		"filename", fileHeader.Filename,
		"size", fileHeader.Size,
	)

	if err := s.ProcessCSV(c.Request.Context(), f); err != nil {
		s.writeIngestError(c, uploadID, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":    "accepted",
		"upload_id": uploadID,
	})
}

// writeIngestError maps pipeline failures onto the HTTP error taxonomy.
// Earlier batches of a failed job stay committed, so the response signals
// failure of the call, not a rollback.
func (s *Service) writeIngestError(c *gin.Context, uploadID string, err error) {
	switch {
	case errors.Is(err, storage.ErrDuplicateReference):
		slog.Info("Duplicate reference rejected", "upload_id", uploadID, "error", err)
		writeError(c, http.StatusConflict, httperr.HttpDuplicateReferenceError, msgDuplicateRef, nil)
	case errors.Is(err, ErrBadRowValue):
		slog.Warn("Unparsable row value in upload", "upload_id", uploadID, "error", err)
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidCsvError, err.Error(), nil)
	default:
		slog.Error("Failed to ingest file", "upload_id", uploadID, "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgIngestInternal, nil)
	}
}

func writeError(c *gin.Context, statusCode int, errorType, message string, details interface{}) {
	c.JSON(statusCode, httperr.ErrorResponse{
		ErrorType: errorType,
		Message:   message,
		Details:   details,
	})
}
