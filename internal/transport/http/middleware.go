package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/auth"
	"github.com/chatline/chatline-server/internal/metrics"
)

const (
	// TokenCookieName is the cookie carrying the session credential.
	TokenCookieName = "token"
	// ContextKeyIdentity is the gin context key for the authorized identity.
	ContextKeyIdentity = "identity"
	// AuthEntryPath is the anonymous entry point denied requests are sent to.
	AuthEntryPath = "/auth"
)

// RequireAuth creates a middleware that gates protected resource
// requests. Denial is a redirect to the anonymous entry point, never
// an error payload; protected content is only served past this gate.
func RequireAuth(gate *auth.Service, m *metrics.Metrics, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(TokenCookieName)
		identity, err := gate.Authorize(token)
		if err != nil {
			logger.Debug().Str("path", c.Request.URL.Path).Msg("unauthorized resource request")
			if m != nil {
				m.AuthDenied.WithLabelValues(c.Request.URL.Path).Inc()
			}
			c.Redirect(http.StatusFound, AuthEntryPath)
			c.Abort()
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}

// MetricsMiddleware records request durations per endpoint.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "no_route"
		}
		m.RequestDuration.
			WithLabelValues(endpoint, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
