// Package config loads the server settings from environment variables.
//
// Every variable has a default. A variable that is set but cannot be parsed
// is an error rather than a silent fallback, and Load reports every problem
// it finds in one joined error so a bad deployment is fixed in one pass.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig lists the origins allowed to call the API. Empty allows all.
type CORSConfig struct {
	AllowedOrigins []string // CORS_ALLOWED_ORIGINS, comma separated
}

// SecurityConfig holds transport hardening and cache lifetimes.
type SecurityConfig struct {
	EnableHSTS   bool          // ENABLE_HSTS
	HSTSMaxAge   time.Duration // HSTS_MAX_AGE
	CorpusMaxAge time.Duration // CORPUS_CACHE_MAX_AGE; public caching of chapter/verse/page reads, 0 disables
}

// DBConfig selects the store for preferences, recent searches and
// idempotency records.
type DBConfig struct {
	Driver string // DB_DRIVER: sqlite|postgres
	Path   string // DB_PATH: SQLite file (sqlite driver)
	DSN    string // DB_DSN: connection string (postgres driver)
}

// CorpusConfig locates the verse data file.
type CorpusConfig struct {
	Path   string // CORPUS_PATH: JSON array, optionally .xz compressed
	Strict bool   // CORPUS_STRICT: refuse to start when Validate reports issues
}

// SearchConfig bounds search input and the recent-search list.
type SearchConfig struct {
	MaxQueryRunes int // SEARCH_MAX_QUERY_RUNES
	RecentLimit   int // RECENT_SEARCH_LIMIT, 1..50
}

// OTELConfig defines OpenTelemetry tracing settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT, host:port
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG, 0..1
}

// Config is the full server configuration.
type Config struct {
	// Server
	Port              string        // PORT
	ReadTimeout       time.Duration // READ_TIMEOUT
	ReadHeaderTimeout time.Duration // READ_HEADER_TIMEOUT
	WriteTimeout      time.Duration // WRITE_TIMEOUT
	IdleTimeout       time.Duration // IDLE_TIMEOUT
	MaxHeaderBytes    int           // MAX_HEADER_BYTES
	GinMode           string        // GIN_MODE: debug|release|test, anything else is release

	// Logging / Docs
	LogLevel       string        // LOG_LEVEL: debug|info|warn|error|fatal|panic
	LogPretty      bool          // LOG_PRETTY: console writer instead of JSON
	LogRedact      bool          // LOG_REDACT: mask search text in access logs
	LogSlowAfter   time.Duration // LOG_SLOW_AFTER; slower 2xx/3xx requests log at warn, 0 disables
	SwaggerEnabled bool          // SWAGGER_ENABLED
	APIBasePath    string        // API_BASE_PATH

	DB     DBConfig
	Corpus CorpusConfig
	Search SearchConfig

	RateRPS   float64 // RATE_RPS, tokens per second per reader
	RateBurst int     // RATE_BURST

	CORS     CORSConfig
	Security SecurityConfig

	IdempotencyTTL time.Duration // IDEMPOTENCY_TTL: how long a preference action can be replayed

	OTEL OTELConfig
}

// MustLoad is Load for callers that cannot continue without a config.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the environment, applies defaults and validates the result.
// The returned error joins every malformed or out-of-range variable.
func Load() (Config, error) {
	var e env
	cfg := Config{
		Port:              e.getStr("PORT", "8080"),
		ReadTimeout:       e.getDur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: e.getDur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      e.getDur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       e.getDur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    e.getInt("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(e.getStr("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(e.getStr("LOG_LEVEL", "info")),
		LogPretty:      e.getBool("LOG_PRETTY", false),
		LogRedact:      e.getBool("LOG_REDACT", true),
		LogSlowAfter:   e.getDur("LOG_SLOW_AFTER", 750*time.Millisecond),
		SwaggerEnabled: e.getBool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(e.getStr("API_BASE_PATH", "/api/v1")),

		DB: DBConfig{
			Driver: strings.ToLower(e.getStr("DB_DRIVER", "sqlite")),
			Path:   e.getStr("DB_PATH", "mushaf.db"),
			DSN:    e.getStr("DB_DSN", ""),
		},
		Corpus: CorpusConfig{
			Path:   e.getStr("CORPUS_PATH", "data/quran.json"),
			Strict: e.getBool("CORPUS_STRICT", false),
		},
		Search: SearchConfig{
			MaxQueryRunes: e.getInt("SEARCH_MAX_QUERY_RUNES", 200),
			RecentLimit:   e.getInt("RECENT_SEARCH_LIMIT", 5),
		},

		RateRPS:   e.getFloat("RATE_RPS", 5.0),
		RateBurst: e.getInt("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(e.getStr("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS:   e.getBool("ENABLE_HSTS", false),
			HSTSMaxAge:   e.getDur("HSTS_MAX_AGE", 180*24*time.Hour),
			CorpusMaxAge: e.getDur("CORPUS_CACHE_MAX_AGE", time.Hour),
		},

		IdempotencyTTL: e.getDur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     e.getBool("OTEL_ENABLED", false),
			Endpoint:    e.getStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    e.getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: e.getStr("OTEL_SERVICE_NAME", "go-mushaf-backend"),
			SampleRatio: e.getFloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	return cfg, errors.Join(append(e.errs, cfg.validate()...)...)
}

// validate returns one error per setting out of range.
func (cfg Config) validate() []error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"))
	}
	check(strings.TrimSpace(cfg.Port) != "", "PORT must not be empty")
	check(cfg.ReadTimeout > 0 && cfg.ReadHeaderTimeout > 0 && cfg.WriteTimeout > 0 && cfg.IdleTimeout > 0,
		"timeouts must be positive durations")
	check(cfg.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")

	switch cfg.DB.Driver {
	case "sqlite":
		check(strings.TrimSpace(cfg.DB.Path) != "", "DB_PATH must not be empty")
	case "postgres":
		check(strings.TrimSpace(cfg.DB.DSN) != "", "DB_DSN must be set when DB_DRIVER=postgres")
	default:
		errs = append(errs, errors.New("DB_DRIVER must be one of: sqlite, postgres"))
	}

	check(strings.TrimSpace(cfg.Corpus.Path) != "", "CORPUS_PATH must not be empty")
	check(cfg.Search.MaxQueryRunes >= 1, "SEARCH_MAX_QUERY_RUNES must be >= 1")
	check(cfg.Search.RecentLimit >= 1 && cfg.Search.RecentLimit <= 50, "RECENT_SEARCH_LIMIT must be between 1 and 50")
	check(cfg.RateRPS >= 0, "RATE_RPS must be >= 0")
	check(cfg.RateBurst >= 1, "RATE_BURST must be >= 1")
	check(cfg.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(cfg.Security.CorpusMaxAge >= 0, "CORPUS_CACHE_MAX_AGE must be >= 0")
	check(cfg.LogSlowAfter >= 0, "LOG_SLOW_AFTER must be >= 0")
	check(cfg.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(cfg.OTEL.SampleRatio >= 0 && cfg.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	return errs
}

// env reads typed variables, remembering values that fail to parse. Unset
// and empty variables take the default.
type env struct {
	errs []error
}

func (e *env) lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *env) bad(k, v, kind string) {
	e.errs = append(e.errs, fmt.Errorf("%s: %q is not a valid %s", k, v, kind))
}

func (e *env) getStr(k, def string) string {
	if v, ok := e.lookup(k); ok {
		return v
	}
	return def
}

func (e *env) getInt(k string, def int) int {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		e.bad(k, v, "integer")
		return def
	}
	return i
}

func (e *env) getFloat(k string, def float64) float64 {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		e.bad(k, v, "number")
		return def
	}
	return f
}

func (e *env) getBool(k string, def bool) bool {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	e.bad(k, v, "boolean")
	return def
}

func (e *env) getDur(k string, def time.Duration) time.Duration {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		e.bad(k, v, "duration")
		return def
	}
	return d
}

// splitCSV splits on commas, trimming and dropping empty items.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath returns p with one leading slash and no trailing slash;
// empty means "/".
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
