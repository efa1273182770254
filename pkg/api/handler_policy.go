package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/respmask/pkg/config"
	"github.com/codeready-toolchain/respmask/pkg/events"
)

// getPolicyHandler handles GET /api/v1/policy.
func (s *Server) getPolicyHandler(c *gin.Context) {
	s.responder.JSON(c, http.StatusOK, PolicyResponse{
		Properties: s.cfg.PolicyRegistry.GetAll(),
		Stats:      s.cfg.Stats(),
	})
}

// putPolicyHandler handles PUT /api/v1/policy.
func (s *Server) putPolicyHandler(c *gin.Context) {
	if s.store == nil {
		abortWithError(c, errNoPolicyStore)
		return
	}

	var req PutPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if msg := checkPolicyKey(req.Key); msg != "" {
		abortWithBadRequest(c, msg)
		return
	}
	if err := config.ValidateProperty(req.Key, req.Value); err != nil {
		abortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := s.store.PutProperty(ctx, req.Key, req.Value); err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.ReloadPolicy(ctx); err != nil {
		abortStoredNotApplied(c, req.Key, err)
		return
	}

	author := extractAuthor(c)
	slog.Info("Policy property stored", "key", req.Key, "author", author)
	s.notifyPolicyChanged(ctx, events.ActionPut, req.Key, author)
	c.JSON(http.StatusOK, &PolicyChangeResponse{
		Key:     req.Key,
		Message: "policy property stored",
		Stats:   s.cfg.Stats(),
	})
}

// deletePolicyHandler handles DELETE /api/v1/policy?key=...
func (s *Server) deletePolicyHandler(c *gin.Context) {
	if s.store == nil {
		abortWithError(c, errNoPolicyStore)
		return
	}

	key := c.Query("key")
	if msg := checkPolicyKey(key); msg != "" {
		abortWithBadRequest(c, msg)
		return
	}

	ctx := c.Request.Context()
	if err := s.store.DeleteProperty(ctx, key); err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.ReloadPolicy(ctx); err != nil {
		abortStoredNotApplied(c, key, err)
		return
	}

	author := extractAuthor(c)
	slog.Info("Policy property deleted", "key", key, "author", author)
	s.notifyPolicyChanged(ctx, events.ActionDelete, key, author)
	c.JSON(http.StatusOK, &PolicyChangeResponse{
		Key:     key,
		Message: "policy property deleted",
		Stats:   s.cfg.Stats(),
	})
}

// notifyPolicyChanged is best effort: the change is already stored and
// applied locally, other replicas pick it up on their next reload.
func (s *Server) notifyPolicyChanged(ctx context.Context, action, key, author string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.PublishPolicyChanged(ctx, events.PolicyChangedPayload{
		Action: action,
		Key:    key,
		Author: author,
	})
	if err != nil {
		slog.Warn("Failed to publish policy change", "key", key, "error", err)
	}
}

func checkPolicyKey(key string) string {
	if strings.TrimSpace(key) == "" {
		return "key is required"
	}
	if !strings.HasSuffix(key, config.MaskSuffix) {
		return "key must end with " + config.MaskSuffix
	}
	return ""
}
