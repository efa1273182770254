package api

import "github.com/gin-gonic/gin"

// extractAuthor extracts the author of a policy change from proxy headers.
// Priority: X-Forwarded-User (oauth2-proxy) > X-Forwarded-Email (oauth2-proxy) >
// X-Remote-User (kube-rbac-proxy) > "api-client"
func extractAuthor(c *gin.Context) string {
	if user := c.GetHeader("X-Forwarded-User"); user != "" {
		return user
	}
	if email := c.GetHeader("X-Forwarded-Email"); email != "" {
		return email
	}
	if user := c.GetHeader("X-Remote-User"); user != "" {
		return user
	}
	return "api-client"
}
