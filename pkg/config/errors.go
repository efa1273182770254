package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound indicates respmask.yaml is missing from the config directory
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidYAML indicates respmask.yaml could not be parsed
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// ErrValidationFailed indicates the loaded policy was rejected
	ErrValidationFailed = errors.New("configuration validation failed")

	// ErrPropertyNotFound indicates a policy property is not set
	ErrPropertyNotFound = errors.New("policy property not found")

	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidValue         = errors.New("invalid field value")
)

// Validation components.
const (
	ComponentPolicy   = "policy"
	ComponentProperty = "property"
	ComponentHandler  = "handler"
	ComponentType     = "type"
)

// ValidationError reports which part of the masking policy was rejected.
type ValidationError struct {
	Component string // one of the Component* constants
	ID        string // property key, handler identity, type name or "options"
	Field     string // optional
	Err       error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %q, %s: %v", e.Component, e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Component, e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PropertyKey returns the policy property the error refers to, or "" for
// policy options.
func (e *ValidationError) PropertyKey() string {
	switch e.Component {
	case ComponentProperty:
		return e.ID
	case ComponentHandler, ComponentType:
		return PropertyKey(e.ID)
	}
	return ""
}

// NewValidationError creates a new validation error
func NewValidationError(component, id, field string, err error) *ValidationError {
	return &ValidationError{Component: component, ID: id, Field: field, Err: err}
}

// LoadError reports a policy file that could not be read or parsed.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new load error
func NewLoadError(file string, err error) *LoadError {
	return &LoadError{File: file, Err: err}
}
