package api

import (
	"github.com/codeready-toolchain/respmask/pkg/config"
)

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Property string `json:"property,omitempty"` // rejected policy property, for validation errors
	Stored   bool   `json:"stored,omitempty"`   // the change reached the store but is not applied yet
}

// MaskResponse is returned by POST /api/v1/mask.
type MaskResponse struct {
	Type    string `json:"type"`
	Masked  bool   `json:"masked"`
	Payload any    `json:"payload"`
}

// PolicyResponse is returned by GET /api/v1/policy.
type PolicyResponse struct {
	Properties map[string]string `json:"properties"`
	Stats      config.Stats      `json:"stats"`
}

// PolicyChangeResponse is returned by PUT and DELETE /api/v1/policy.
type PolicyChangeResponse struct {
	Key     string       `json:"key"`
	Message string       `json:"message"`
	Stats   config.Stats `json:"stats"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Checks  map[string]HealthCheck `json:"checks"`
}

// HealthCheck is the status of one component.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
