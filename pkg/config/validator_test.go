package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePolicyOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    *PolicyOptions
		wantErr error
	}{
		{name: "defaults", opts: DefaultPolicyOptions()},
		{name: "database source", opts: &PolicyOptions{Source: PolicySourceDatabase}},
		{name: "missing options", opts: nil, wantErr: ErrMissingRequiredField},
		{name: "unknown source", opts: &PolicyOptions{Source: "etcd"}, wantErr: ErrInvalidValue},
		{name: "negative refresh interval", opts: &PolicyOptions{Source: PolicySourceFile, RefreshInterval: -1}, wantErr: ErrInvalidValue},
		{name: "negative debounce", opts: &PolicyOptions{Source: PolicySourceFile, ReloadDebounce: -1}, wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Policy: tt.opts, PolicyRegistry: NewPolicyRegistry(nil)}
			err := NewValidator(cfg).ValidateAll()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateProperties(t *testing.T) {
	tests := []struct {
		name       string
		properties map[string]string
		wantErr    error
		errContain string
	}{
		{
			name: "valid",
			properties: map[string]string{
				"GET /a.mask":    "true",
				"GET /b.mask":    "False",
				"bank.Card.mask": "number, holder::^(\\w+) ,history(List).memo",
			},
		},
		{
			name:       "missing suffix",
			properties: map[string]string{"bank.Card": "number"},
			wantErr:    ErrInvalidValue,
			errContain: "bank.Card",
		},
		{
			name:       "empty id",
			properties: map[string]string{".mask": "true"},
			wantErr:    ErrMissingRequiredField,
		},
		{
			name:       "blank type value",
			properties: map[string]string{"bank.Card.mask": "  "},
			wantErr:    ErrMissingRequiredField,
			errContain: "bank.Card",
		},
		{
			name:       "empty field path",
			properties: map[string]string{"bank.Card.mask": "number,::(\\d+)"},
			wantErr:    ErrInvalidValue,
		},
		{
			name:       "marker only path",
			properties: map[string]string{"bank.Card.mask": "(List)"},
			wantErr:    ErrInvalidValue,
		},
		{
			name:       "malformed pattern is only a warning",
			properties: map[string]string{"bank.Card.mask": "number::([0-9"},
		},
		{
			name:       "pattern without group is only a warning",
			properties: map[string]string{"bank.Card.mask": "number::\\d+"},
		},
		{
			name:       "trailing comma ignored",
			properties: map[string]string{"bank.Card.mask": "number,"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProperties(tt.properties)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.errContain != "" {
				assert.Contains(t, err.Error(), tt.errContain)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("type", "bank.Card", "fields", ErrMissingRequiredField)
	assert.Equal(t, `type "bank.Card", fields: missing required field`, err.Error())
}
