// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// logging.go: correlation ids, the plain access log, panic recovery and the
// request-scoped zerolog logger that handlers reach through LoggerFrom.
// Install RequestID first, then a logger (Logger or RedactingLogger), then
// Recovery, so panics are logged with their request id.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	scopedLoggerKey = "logger"

	// maxQueryLog caps the raw query bytes written by Logger.
	maxQueryLog = 512
)

// AccessLogOptions tunes the level chosen for access log lines. It is shared
// by Logger and RedactingLogger.
type AccessLogOptions struct {
	// QuietPaths are path prefixes (health checks, scrapes) whose successful
	// requests log at debug instead of info.
	QuietPaths []string
	// SlowAfter promotes successful requests slower than this to warn.
	// Zero disables the check.
	SlowAfter time.Duration
}

// level picks the severity of one access log line. Handler errors and 5xx
// are errors, 4xx warnings. 304 revalidations of cached chapters and
// preferences count as success.
func (o AccessLogOptions) level(path string, status int, errs int, latency time.Duration) zerolog.Level {
	switch {
	case errs > 0 || status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	case o.SlowAfter > 0 && latency > o.SlowAfter:
		return zerolog.WarnLevel
	case hasAnyPrefix(path, o.QuietPaths):
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// routeOf is the matched route template ("/api/v1/chapters/:number"), or the
// raw path when nothing matched.
func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// requestIDOf reads the id set by RequestID, falling back to the response
// and then the request header.
func requestIDOf(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if rid := c.Writer.Header().Get(requestIDHeader); rid != "" {
		return rid
	}
	return c.GetHeader(requestIDHeader)
}

// scopeLogger stores a request-scoped logger for LoggerFrom and returns it.
func scopeLogger(c *gin.Context, route string) *zerolog.Logger {
	l := log.With().
		Str("request_id", requestIDOf(c)).
		Str("user_id", UserID(c)).
		Str("method", c.Request.Method).
		Str("path", route).
		Logger()
	c.Set(scopedLoggerKey, &l)
	return &l
}

// RequestID reuses an incoming X-Request-ID or mints a UUID, and echoes it on
// the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger writes one structured line per request. It records the raw query,
// search text included; deployments that must not keep reader queries use
// RedactingLogger instead.
func Logger(opts AccessLogOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := routeOf(c)
		l := scopeLogger(c, route)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		ev := l.WithLevel(opts.level(c.Request.URL.Path, status, len(c.Errors), latency)).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", clip(c.Request.URL.RawQuery, maxQueryLog)).
			Int64("bytes_in", c.Request.ContentLength).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", latency)
		if IsReplay(c) {
			ev = ev.Bool("replayed", true)
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Msg("request")
	}
}

// Recovery turns a panic into a 500 with the API error envelope. When the
// handler already wrote a response only the status is forced.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := requestIDOf(c)
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", rid).
				Str("path", routeOf(c)).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": rid,
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when no
// access logger ran. Never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(scopedLoggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// clip cuts s to max bytes plus an ellipsis; max <= 0 keeps s whole.
func clip(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
