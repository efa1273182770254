package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/respmask/pkg/config"
	"github.com/codeready-toolchain/respmask/pkg/database"
)

// errNoPolicyStore is returned by policy writes when no database is configured.
var errNoPolicyStore = errors.New("policy store not configured")

// mapError maps service-layer errors to HTTP status codes and messages.
func mapError(err error) (int, string) {
	var validErr *config.ValidationError
	if errors.As(err, &validErr) {
		return http.StatusBadRequest, validErr.Error()
	}
	if errors.Is(err, errNoPolicyStore) {
		return http.StatusServiceUnavailable, "policy store not configured"
	}
	if errors.Is(err, database.ErrPropertyNotFound) || errors.Is(err, config.ErrPropertyNotFound) {
		return http.StatusNotFound, "policy property not found"
	}

	// Unexpected error
	slog.Error("Unexpected service error", "error", err)
	return http.StatusInternalServerError, "internal server error"
}

func abortWithError(c *gin.Context, err error) {
	status, msg := mapError(err)
	resp := ErrorResponse{Error: msg}
	var validErr *config.ValidationError
	if errors.As(err, &validErr) {
		resp.Property = validErr.PropertyKey()
	}
	c.AbortWithStatusJSON(status, resp)
}

func abortWithBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// abortStoredNotApplied answers a policy write that reached the store while
// the reload applying it failed. The next successful reload applies it.
func abortStoredNotApplied(c *gin.Context, key string, err error) {
	slog.Error("Policy change stored but not applied", "key", key, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:    "policy change stored but not applied: " + err.Error(),
		Property: key,
		Stored:   true,
	})
}
