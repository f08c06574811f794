package httpapi

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/semdoc/internal/logger"
)

// Session key transport.
const (
	SessionHeader = "X-Session-Key"
	SessionCookie = "semdoc_session"
)

// sessionKey returns the client's staging key, or "" when none was sent.
func sessionKey(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader(SessionHeader)); key != "" {
		return key
	}
	if key, err := c.Cookie(SessionCookie); err == nil {
		return key
	}
	return ""
}

// cors allows the configured origins. "*" allows any origin.
func cors(origins []string) gin.HandlerFunc {
	anyOrigin := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (anyOrigin || slices.Contains(origins, origin)) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
			h.Set("Access-Control-Expose-Headers", SessionHeader)
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLog logs each request at debug level.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Microsecond),
		).Debug("http")
	}
}
