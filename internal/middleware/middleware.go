package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/pkg/visitor"
)

// Header and context keys shared by the middlewares
const (
	HeaderRequestID   = "X-Request-ID"
	ContextRequestID  = "requestID"
	ContextVisitorID  = "visitorID"
	defaultCookieName = "visitor_id"
)

// RequestLogger stores a request-scoped logger carrying the request id in the
// request context and writes one line per finished request.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		l := base.With().Str("requestID", requestID).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("clientIP", c.ClientIP()).
			Msg("Request handled")
	}
}

// VisitorConfig controls the visitor cookie
type VisitorConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Visitor makes sure every browser carries an opaque visitor id cookie and
// exposes it under ContextVisitorID.
func Visitor(cfg VisitorConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || !visitor.ValidID(id) {
			id = visitor.NewVisitorID()
		}
		// refreshed on every request so it outlives the state it points at
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
		c.Set(ContextVisitorID, id)
		c.Next()
	}
}

// VisitorID returns the id set by Visitor
func VisitorID(c *gin.Context) string {
	return c.GetString(ContextVisitorID)
}
