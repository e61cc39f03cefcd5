package ingestion

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/s3meta/s3meta/internal/api/v1"
	httperr "github.com/s3meta/s3meta/internal/core/errors"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgEmptyBatch     = "Request must contain at least one object"
	msgPersistFailed  = "Failed to persist objects"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestResponse reports how many posted objects were new.
type IngestResponse struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
}

// IngestHandler handles HTTP POST requests carrying a JSON array of object records.
func (s *Service) IngestHandler(c *gin.Context) {
	objs, payloadSize, err := s.parseObjects(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := validateObjects(objs); err != nil {
		writeError(c, err)
		return
	}

	slog.Info("[Ingestion] Received objects",
		"count", len(objs),
		"payload_size", payloadSize)

	accepted, err := s.persistObjects(c.Request.Context(), objs)
	if err != nil {
		writeError(c, err)
		return
	}

	// Rows are in the raw table. The next analyzer run folds them in.
	c.JSON(http.StatusAccepted, IngestResponse{
		Accepted:   accepted,
		Duplicates: len(objs) - accepted,
	})
}

// parseObjects reads the raw request body and binds it into object records.
// Returns the parsed records and the raw payload size (used for structured logging upstream).
func (s *Service) parseObjects(c *gin.Context) ([]*v1.ObjectRecord, int, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var objs []*v1.ObjectRecord
	if err := c.ShouldBindJSON(&objs); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	if len(objs) == 0 {
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidObjectError,
			message:    msgEmptyBatch,
		}
	}

	return objs, len(bodyBytes), nil
}

// validateObjects normalizes every record and rejects the whole request on
// the first invalid one.
func validateObjects(objs []*v1.ObjectRecord) *ingestionError {
	for i, obj := range objs {
		if obj == nil {
			return &ingestionError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidObjectError,
				message:    "object must not be null",
				details:    map[string]interface{}{"index": i},
			}
		}

		obj.Normalize()
		if err := obj.Validate(); err != nil {
			slog.Warn("[Ingestion] Object validation failed", "error", err, "index", i, "key", obj.Key)
			return &ingestionError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidObjectError,
				message:    err.Error(),
				details: map[string]interface{}{
					"index": i,
					"key":   obj.Key,
				},
			}
		}
	}
	return nil
}

// persistObjects saves the records in one transaction and returns how many were new.
func (s *Service) persistObjects(ctx context.Context, objs []*v1.ObjectRecord) (int, *ingestionError) {
	inserted, err := s.store.SaveObjects(ctx, objs)
	if err != nil {
		slog.Error("[Ingestion] Failed to persist objects", "error", err, "count", len(objs))
		return 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}

	if dup := len(objs) - inserted; dup > 0 {
		slog.Info("[Ingestion] Duplicate objects skipped", "duplicates", dup)
	}
	return inserted, nil
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
