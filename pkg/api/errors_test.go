package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/respmask/pkg/config"
	"github.com/codeready-toolchain/respmask/pkg/database"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		expectCode int
		expectMsg  string
	}{
		{
			name:       "validation error maps to 400",
			err:        config.NewValidationError("type", "bank.Card", "fields", config.ErrMissingRequiredField),
			expectCode: http.StatusBadRequest,
			expectMsg:  "missing required field",
		},
		{
			name:       "missing store maps to 503",
			err:        errNoPolicyStore,
			expectCode: http.StatusServiceUnavailable,
			expectMsg:  "policy store not configured",
		},
		{
			name:       "stored property not found maps to 404",
			err:        fmt.Errorf("wrapped: %w", database.ErrPropertyNotFound),
			expectCode: http.StatusNotFound,
			expectMsg:  "policy property not found",
		},
		{
			name:       "unknown error maps to 500",
			err:        errors.New("something unexpected happened"),
			expectCode: http.StatusInternalServerError,
			expectMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := mapError(tt.err)
			assert.Equal(t, tt.expectCode, code)
			assert.Contains(t, msg, tt.expectMsg)
		})
	}
}
