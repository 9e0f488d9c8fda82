// Package httpapi assembles the Gin engine: middleware chain, health and
// metrics endpoints, optional Swagger UI, and the versioned reader API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-mushaf-backend/docs" // registers the swagger spec
	"github.com/tbourn/go-mushaf-backend/internal/config"
	"github.com/tbourn/go-mushaf-backend/internal/corpus"
	"github.com/tbourn/go-mushaf-backend/internal/domain"
	"github.com/tbourn/go-mushaf-backend/internal/http/handlers"
	"github.com/tbourn/go-mushaf-backend/internal/http/middleware"
	"github.com/tbourn/go-mushaf-backend/internal/repo"
	"github.com/tbourn/go-mushaf-backend/internal/services"
)

// maxRequestBody caps every request body. The largest legitimate one is a
// preferences PUT.
const maxRequestBody = 1 << 20

// opsPaths are served outside the API: never rate limited, logged quietly.
var opsPaths = []string{"/health", "/metrics"}

// preferencesRepoShim satisfies services.PreferencesRepo with the repo
// package functions.
type preferencesRepoShim struct{}

func (preferencesRepoShim) GetPreferences(ctx context.Context, db *gorm.DB, userID string) (*domain.Preferences, error) {
	return repo.GetPreferences(ctx, db, userID)
}

func (preferencesRepoShim) SavePreferences(ctx context.Context, db *gorm.DB, p *domain.Preferences) error {
	return repo.SavePreferences(ctx, db, p)
}

// RegisterRoutes installs the middleware chain and every endpoint on r. corp
// serves reads and search; db holds preferences, recent searches and
// idempotency records.
//
// Order: tracing, request id, access log, recovery, body cap, metrics,
// idempotency (so replays can skip) rate limiting, CORS, security and cache
// headers, gzip.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, corp *corpus.Corpus, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(
		otelgin.Middleware(cfg.OTEL.ServiceName),
		middleware.RequestID(),
		accessLog(cfg),
		middleware.Recovery(),
		capBody(maxRequestBody),
		middleware.Metrics(),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, idempotencyLookup(db)),
		rateLimit(cfg),
		corsPolicy(cfg.CORS.AllowedOrigins),
		securityHeaders(cfg),
		gzip.Gzip(gzip.DefaultCompression),
	)

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "corpus": corp.Checksum()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	searchSvc := services.NewSearchService(db, corp)
	searchSvc.MaxQueryRunes = cfg.Search.MaxQueryRunes
	searchSvc.RecentLimit = cfg.Search.RecentLimit
	h := handlers.New(
		services.NewReaderService(corp),
		searchSvc,
		services.NewPreferencesService(db, preferencesRepoShim{}),
	)
	h.IdempotencyTTL = cfg.IdempotencyTTL

	mountAPI(apiGroup(r, cfg.APIBasePath), h)
}

func mountAPI(api *gin.RouterGroup, h *handlers.Handlers) {
	api.GET("/chapters", h.ListChapters)
	api.GET("/chapters/:number", h.GetChapter)
	api.GET("/chapters/:number/verses/:verse", h.GetVerse)
	api.GET("/pages/:page", h.GetPage)

	api.GET("/search", h.SearchVerses)
	api.GET("/highlight", h.HighlightText)
	api.GET("/recent-searches", h.ListRecentSearches)
	api.DELETE("/recent-searches", h.ClearRecentSearches)
	api.DELETE("/recent-searches/:query", h.DeleteRecentSearch)

	api.GET("/preferences", h.GetPreferences)
	api.PUT("/preferences", h.UpdatePreferences)
	api.POST("/preferences/font-size/increase", h.IncreaseFontSize)
	api.POST("/preferences/font-size/decrease", h.DecreaseFontSize)
	api.POST("/preferences/display-mode/toggle", h.ToggleDisplayMode)
	api.POST("/preferences/ui-visible/toggle", h.ToggleUIVisible)
}

// accessLog masks search text (q, text) unless LOG_REDACT is off.
func accessLog(cfg config.Config) gin.HandlerFunc {
	opts := middleware.AccessLogOptions{QuietPaths: opsPaths, SlowAfter: cfg.LogSlowAfter}
	if !cfg.LogRedact {
		return middleware.Logger(opts)
	}
	return middleware.RedactingLogger(middleware.RedactOptions{
		AccessLogOptions: opts,
		MaskHeaders:      []string{"X-API-Key"},
		MaskQueryParams:  []string{"q", "text"},
	})
}

// idempotencyLookup asks the store whether a preference action was already
// answered. A nil db never replays.
func idempotencyLookup(db *gorm.DB) middleware.IdempotencyLookup {
	return func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
		if db == nil {
			return false, nil
		}
		_, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	}
}

func rateLimit(cfg config.Config) gin.HandlerFunc {
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	rl.SkipPaths = append([]string{"/swagger/"}, opsPaths...)
	return rl.Handler()
}

// corsPolicy allows any origin without credentials when origins is empty,
// otherwise exactly the listed ones.
func corsPolicy(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Accept-Language", "If-None-Match",
			"X-User-ID", "X-Request-ID", middleware.HeaderIdempotencyKey,
		},
		ExposeHeaders: []string{"X-Request-ID", "ETag", "Idempotency-Replayed", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}

// securityHeaders keeps reader state out of shared caches and lets corpus
// reads be cached publicly for CORPUS_CACHE_MAX_AGE.
func securityHeaders(cfg config.Config) gin.HandlerFunc {
	base := cfg.APIBasePath
	return middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
		PrivatePaths: []string{apiPath(base, "/preferences"), apiPath(base, "/recent-searches")},
		PublicPaths:  []string{apiPath(base, "/chapters"), apiPath(base, "/pages")},
		PublicMaxAge: cfg.Security.CorpusMaxAge,
	})
}

// capBody makes body reads past maxBytes fail.
func capBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// apiPath prefixes p with base; a root base adds nothing.
func apiPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	return base + p
}

func apiGroup(r *gin.Engine, base string) *gin.RouterGroup {
	if base == "" || base == "/" {
		return r.Group("")
	}
	return r.Group(base)
}
