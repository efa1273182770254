package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskHandler(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantMasked bool
		wantBody   any
	}{
		{
			name: "object payload",
			body: map[string]any{
				"type":    "bank.Card",
				"payload": map[string]any{"card": map[string]any{"number": "4111111111111111", "holder": "Ann"}},
			},
			wantStatus: http.StatusOK,
			wantMasked: true,
			wantBody:   map[string]any{"card": map[string]any{"number": "************1111", "holder": "Ann"}},
		},
		{
			name: "array payload masks every element",
			body: map[string]any{
				"type": "bank.Card",
				"payload": []any{
					map[string]any{"card": map[string]any{"number": "4111111111111111"}},
					map[string]any{"card": map[string]any{"number": "5500000000000004"}},
				},
			},
			wantStatus: http.StatusOK,
			wantMasked: true,
			wantBody: []any{
				map[string]any{"card": map[string]any{"number": "************1111"}},
				map[string]any{"card": map[string]any{"number": "************0004"}},
			},
		},
		{
			name: "unknown type echoes payload",
			body: map[string]any{
				"type":    "bank.Unknown",
				"payload": map[string]any{"card": map[string]any{"number": "4111111111111111"}},
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"card": map[string]any{"number": "4111111111111111"}},
		},
		{
			name:       "empty type echoes payload",
			body:       map[string]any{"payload": "plain"},
			wantStatus: http.StatusOK,
			wantBody:   "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s.Router(), http.MethodPost, "/api/v1/mask", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			resp := decode[MaskResponse](t, rec)
			assert.Equal(t, tt.wantMasked, resp.Masked)
			assert.Equal(t, tt.wantBody, resp.Payload)
		})
	}
}

func TestMaskHandlerBadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{name: "invalid JSON", body: `{"type": `, contains: "invalid request body"},
		{name: "missing payload", body: `{"type": "bank.Card"}`, contains: "payload is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s.Router(), http.MethodPost, "/api/v1/mask", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[ErrorResponse](t, rec).Error, tt.contains)
		})
	}
}
