package api

import "encoding/json"

// MaskRequest is the HTTP request body for POST /api/v1/mask.
type MaskRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PutPolicyRequest is the HTTP request body for PUT /api/v1/policy.
type PutPolicyRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
