package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/relyexchange/internal/services"
)

// respondError maps service errors onto status codes. Storage failures are
// reported with the underlying message.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var notFound *services.NotFoundOrUnauthorizedError
	var storage *services.StorageError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.As(err, &notFound):
		status := http.StatusNotFound
		if notFound.Forbidden {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": notFound.Message})
	case errors.As(err, &storage):
		slog.Error("storage failure", "op", storage.Op, "error", storage.Err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": storage.Error()})
	default:
		slog.Error("unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
