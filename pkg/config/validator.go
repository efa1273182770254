package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/codeready-toolchain/respmask/pkg/masking"
)

// ConfigValidator validates configuration comprehensively with clear error messages
type ConfigValidator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration
func NewValidator(cfg *Config) *ConfigValidator {
	return &ConfigValidator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast - stops at first error)
func (v *ConfigValidator) ValidateAll() error {
	if err := v.validatePolicyOptions(); err != nil {
		return fmt.Errorf("policy options validation failed: %w", err)
	}

	if err := validateProperties(v.cfg.PolicyRegistry.GetAll()); err != nil {
		return fmt.Errorf("policy validation failed: %w", err)
	}

	return nil
}

func (v *ConfigValidator) validatePolicyOptions() error {
	opts := v.cfg.Policy
	if opts == nil {
		return NewValidationError(ComponentPolicy, "options", "", ErrMissingRequiredField)
	}
	if !opts.Source.IsValid() {
		return NewValidationError(ComponentPolicy, "options", "source", fmt.Errorf("%w: %s", ErrInvalidValue, opts.Source))
	}
	if opts.ReloadDebounce < 0 {
		return NewValidationError(ComponentPolicy, "options", "reload_debounce", fmt.Errorf("%w: must not be negative", ErrInvalidValue))
	}
	if opts.RefreshInterval < 0 {
		return NewValidationError(ComponentPolicy, "options", "refresh_interval", fmt.Errorf("%w: must not be negative", ErrInvalidValue))
	}
	return nil
}

// ValidateProperty checks a single policy property with the rules applied at load time.
func ValidateProperty(key, value string) error {
	return validateProperties(map[string]string{key: value})
}

// validateProperties checks every policy property. Handler switches must
// carry a boolean; type values must hold at least one field specification
// with a path. Malformed regex clauses are only reported: the masking engine
// skips them at run time.
func validateProperties(properties map[string]string) error {
	for key, value := range properties {
		id, ok := strings.CutSuffix(key, MaskSuffix)
		if !ok {
			return NewValidationError(ComponentProperty, key, "", fmt.Errorf("%w: key must end with %q", ErrInvalidValue, MaskSuffix))
		}
		if strings.TrimSpace(id) == "" {
			return NewValidationError(ComponentProperty, key, "", fmt.Errorf("%w: empty handler or type name", ErrMissingRequiredField))
		}

		if _, ok := parseSwitch(value); ok {
			continue
		}
		if err := validateFieldSpecs(id, value); err != nil {
			return err
		}
	}
	return nil
}

func validateFieldSpecs(typeName, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(ComponentType, typeName, "fields", ErrMissingRequiredField)
	}

	for _, raw := range strings.Split(value, masking.SpecSeparator) {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		spec, ok := masking.ParseFieldSpec(raw)
		if !ok {
			return NewValidationError(ComponentType, typeName, "fields", fmt.Errorf("%w: empty field path in %q", ErrInvalidValue, raw))
		}
		for _, pattern := range spec.Patterns {
			if masking.IsBlankPattern(pattern) {
				continue
			}
			if _, err := masking.CompilePattern(pattern); err != nil {
				slog.Warn("Masking pattern will be skipped",
					"type", typeName, "field", raw, "error", err)
			}
		}
	}
	return nil
}
