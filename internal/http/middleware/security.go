// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// security.go: response hardening headers and the cache policy per path
// class. Corpus reads (chapters, verses, pages) never change while the
// process runs and may be cached publicly; reader state (preferences, recent
// searches) is private and always revalidated against its ETag.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// exposedHeaders are response headers browser clients need to read.
var exposedHeaders = []string{"X-Request-ID", "ETag", "Idempotency-Replayed", "Retry-After"}

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS sends Strict-Transport-Security on HTTPS requests only.
	EnableHSTS bool
	// HSTSMaxAge defaults to 180 days when <= 0.
	HSTSMaxAge time.Duration
	// NoStore forces Cache-Control: no-store everywhere and overrides the
	// path classes below.
	NoStore bool
	// EnablePolicy adds Permissions-Policy and X-Permitted-Cross-Domain-Policies.
	EnablePolicy bool

	// PrivatePaths get "private, no-cache".
	PrivatePaths []string
	// PublicPaths get "public, max-age=<PublicMaxAge>" when PublicMaxAge > 0.
	PublicPaths  []string
	PublicMaxAge time.Duration
}

// cacheControl returns the Cache-Control value for path, or "" to leave the
// header unset.
func (o SecurityOptions) cacheControl(path string) string {
	switch {
	case o.NoStore:
		return "no-store"
	case hasAnyPrefix(path, o.PrivatePaths):
		return "private, no-cache"
	case o.PublicMaxAge > 0 && hasAnyPrefix(path, o.PublicPaths):
		return "public, max-age=" + strconv.Itoa(int(o.PublicMaxAge.Seconds()))
	}
	return ""
}

// SecurityHeaders sets nosniff, frame denial and no-referrer on every
// response, plus the optional policy, cache and HSTS headers configured in
// opt. It also merges exposedHeaders into Access-Control-Expose-Headers.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	hstsAge := opt.HSTSMaxAge
	if hstsAge <= 0 {
		hstsAge = 180 * 24 * time.Hour
	}
	hsts := "max-age=" + strconv.Itoa(int(hstsAge.Seconds())) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if cc := opt.cacheControl(c.Request.URL.Path); cc != "" {
			h.Set("Cache-Control", cc)
			if opt.NoStore {
				h.Set("Pragma", "no-cache")
				h.Set("Expires", "0")
			}
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		h.Set("Access-Control-Expose-Headers", mergeTokens(h.Get("Access-Control-Expose-Headers"), exposedHeaders))

		c.Next()
	}
}

// mergeTokens appends each of add missing from the comma-separated list cur,
// comparing case-insensitively and keeping cur's order.
func mergeTokens(cur string, add []string) string {
	seen := make(map[string]struct{}, len(add))
	var out []string
	for _, t := range strings.Split(cur, ",") {
		if t = strings.TrimSpace(t); t != "" {
			seen[strings.ToLower(t)] = struct{}{}
			out = append(out, t)
		}
	}
	for _, t := range add {
		if _, ok := seen[strings.ToLower(t)]; !ok {
			seen[strings.ToLower(t)] = struct{}{}
			out = append(out, t)
		}
	}
	return strings.Join(out, ", ")
}

// hasAnyPrefix reports whether path starts with one of prefixes.
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// isHTTPS reports a TLS connection or X-Forwarded-Proto: https from a proxy.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
