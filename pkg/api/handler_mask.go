package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maskHandler handles POST /api/v1/mask.
// The payload is masked with the field specifications of the requested type;
// a payload array has each element masked.
func (s *Server) maskHandler(c *gin.Context) {
	var req MaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(req.Payload) == 0 {
		abortWithBadRequest(c, "payload is required")
		return
	}

	var payload any
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		abortWithBadRequest(c, "invalid payload: "+err.Error())
		return
	}

	var spec string
	if req.Type != "" {
		spec = s.cfg.PolicyRegistry.FieldSpec(req.Type)
	}
	if spec != "" {
		s.engine.MaskPayload(payload, func(string) string { return spec })
	}

	c.JSON(http.StatusOK, &MaskResponse{
		Type:    req.Type,
		Masked:  spec != "",
		Payload: payload,
	})
}
