package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorError(t *testing.T) {
	baseErr := errors.New("base error")

	tests := []struct {
		name     string
		err      *ValidationError
		contains []string
		excludes []string
	}{
		{
			name:     "with field",
			err:      NewValidationError("type", "bank.Account", "fields", baseErr),
			contains: []string{`type "bank.Account", fields:`, "base error"},
		},
		{
			name:     "without field",
			err:      NewValidationError("property", "GET /x", "", errors.New("bad key")),
			contains: []string{`property "GET /x": bad key`},
			excludes: []string{", :"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				assert.Contains(t, errStr, substr)
			}
			for _, substr := range tt.excludes {
				assert.NotContains(t, errStr, substr)
			}
		})
	}
}

func TestValidationErrorUnwrap(t *testing.T) {
	validationErr := NewValidationError("type", "bank.Account", "fields", ErrMissingRequiredField)

	assert.Equal(t, ErrMissingRequiredField, validationErr.Unwrap())
	assert.True(t, errors.Is(validationErr, ErrMissingRequiredField))
}

func TestLoadError(t *testing.T) {
	baseErr := errors.New("file not found")
	loadErr := NewLoadError(PolicyFileName, baseErr)

	assert.Contains(t, loadErr.Error(), "failed to load")
	assert.Contains(t, loadErr.Error(), PolicyFileName)
	assert.Contains(t, loadErr.Error(), "file not found")
	assert.True(t, errors.Is(loadErr, baseErr))
}

func TestValidationErrorPropertyKey(t *testing.T) {
	tests := []struct {
		component string
		id        string
		want      string
	}{
		{ComponentProperty, "bank.Account.mask", "bank.Account.mask"},
		{ComponentType, "bank.Account", "bank.Account.mask"},
		{ComponentHandler, "GET /accounts", "GET /accounts.mask"},
		{ComponentPolicy, "options", ""},
	}

	for _, tt := range tests {
		t.Run(tt.component, func(t *testing.T) {
			err := NewValidationError(tt.component, tt.id, "", ErrInvalidValue)
			assert.Equal(t, tt.want, err.PropertyKey())
		})
	}
}
