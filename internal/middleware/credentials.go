package middleware

import (
	"log"
	"net/http"

	"CommitBuddy_NutritionAdvisor/internal/config"

	"github.com/gin-gonic/gin"
)

// RequireCredentials stops every request while an API key is missing, so
// the form never renders without both keys. The process keeps serving the error.
func RequireCredentials(cfg *config.Config) gin.HandlerFunc {
	missing := cfg.MissingKeys()
	if len(missing) > 0 {
		log.Printf("[WARN] RequireCredentials(): %v not set, every page will show the credential error", missing)
	}
	return func(c *gin.Context) {
		if len(missing) == 0 {
			c.Next()
			return
		}
		switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) {
		case gin.MIMEHTML:
			c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{"Message": config.MissingKeysMessage})
			c.Abort()
		default:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": config.MissingKeysMessage})
		}
	}
}
