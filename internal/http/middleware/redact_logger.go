package middleware

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const redacted = "[REDACTED]"

// Identifier patterns scrubbed from queries and header values. UUIDs go
// first: the loose phone pattern would otherwise eat their digit groups.
var scrubPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

func scrub(s string) string {
	for _, p := range scrubPatterns {
		if s == "" {
			break
		}
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return s
}

// RedactOptions configures RedactingLogger.
type RedactOptions struct {
	AccessLogOptions

	// MaskHeaders are replaced whole, on top of Authorization, Cookie and
	// Set-Cookie. Case-insensitive.
	MaskHeaders []string
	// MaskQueryParams have every value replaced, e.g. the search text in q.
	MaskQueryParams []string
}

// toSet lowercases when fold is set and drops blanks.
func toSet(items []string, fold bool) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if fold {
			it = strings.ToLower(it)
		}
		if it != "" {
			set[it] = struct{}{}
		}
	}
	return set
}

// maskQuery replaces the values of params in rawQuery and re-encodes it with
// sorted keys. A query with none of params, or one that does not parse, is
// returned as is.
func maskQuery(rawQuery string, params map[string]struct{}) string {
	if rawQuery == "" || len(params) == 0 {
		return rawQuery
	}
	vals, err := url.ParseQuery(rawQuery)
	if err != nil {
		return rawQuery
	}
	hit := false
	for k := range vals {
		if _, ok := params[k]; ok {
			hit = true
		}
	}
	if !hit {
		return rawQuery
	}

	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		_, mask := params[k]
		for _, v := range vals[k] {
			if mask {
				v = redacted
			} else {
				v = url.QueryEscape(v)
			}
			parts = append(parts, url.QueryEscape(k)+"="+v)
		}
	}
	return strings.Join(parts, "&")
}

// RedactingLogger is Logger for deployments that must not keep what readers
// searched for: masked query parameters lose their values, sensitive headers
// are dropped, and ids, emails and phone numbers are scrubbed from the rest.
// Bodies are never logged.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := toSet(append([]string{"Authorization", "Cookie", "Set-Cookie"}, opts.MaskHeaders...), true)
	maskParams := toSet(opts.MaskQueryParams, false)

	return func(c *gin.Context) {
		start := time.Now()
		query := scrub(maskQuery(c.Request.URL.RawQuery, maskParams))
		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				headers[k] = redacted
			} else {
				headers[k] = scrub(strings.Join(vv, ", "))
			}
		}
		l := scopeLogger(c, routeOf(c))

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		ev := l.WithLevel(opts.level(c.Request.URL.Path, status, len(c.Errors), latency)).
			Str("query", query).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", latency).
			Interface("headers", headers)
		if IsReplay(c) {
			ev = ev.Bool("replayed", true)
		}
		ev.Msg("http_request")
	}
}
