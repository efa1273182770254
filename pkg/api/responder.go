package api

import (
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/respmask/pkg/masking"
)

// Responder serializes handler results, masking them first when the policy
// enables masking for the handler that produced them.
type Responder struct {
	engine *masking.Service
	policy masking.Policy
}

// NewResponder creates a responder for the given engine and policy.
func NewResponder(engine *masking.Service, policy masking.Policy) *Responder {
	return &Responder{engine: engine, policy: policy}
}

// HandlerIdentity returns "<METHOD> <route template>", e.g. "GET /api/v1/accounts/:id".
// Unmatched routes yield the method followed by a space.
func HandlerIdentity(c *gin.Context) string {
	return c.Request.Method + " " + c.FullPath()
}

// JSON masks body in place (when enabled for the handler) and writes it as JSON.
// Struct values are copied first so that their fields can be written.
func (r *Responder) JSON(c *gin.Context, status int, body any) {
	handler := HandlerIdentity(c)
	if r.policy != nil && r.policy.ShouldMask(handler) {
		body = addressable(body)
		r.engine.MaskResponse(r.policy, handler, body)
	}
	c.JSON(status, body)
}

func addressable(body any) any {
	if body == nil {
		return nil
	}
	v := reflect.ValueOf(body)
	if v.Kind() != reflect.Struct {
		return body
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface()
}
