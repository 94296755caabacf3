package handlers

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SessionHeader scopes supersession: a newer request of the same view with the
// same session value cancels the older one.
const SessionHeader = "X-Dashboard-Session"

func scope(c *gin.Context) string {
	return c.GetHeader(SessionHeader)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidBatch),
		errors.Is(err, domain.ErrInvalidMapping),
		errors.Is(err, domain.ErrNoPendingEdit):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMappingNotFound),
		errors.Is(err, domain.ErrInsightNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrViewUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrSuperseded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
