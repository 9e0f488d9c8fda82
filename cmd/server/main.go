// Command server runs the mushaf reader HTTP API.
//
// Startup order: environment (.env), config, logging, corpus, database,
// tracing, then the Gin engine. The corpus is loaded once and never changes
// for the life of the process.
//
// @title       Mushaf Reader API
// @version     1.0
// @description Chapters, pages, diacritic-insensitive verse search and per-user reader preferences.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-mushaf-backend/internal/config"
	"github.com/tbourn/go-mushaf-backend/internal/corpus"
	httpapi "github.com/tbourn/go-mushaf-backend/internal/http"
	"github.com/tbourn/go-mushaf-backend/internal/observability"
	"github.com/tbourn/go-mushaf-backend/internal/repo"
	"github.com/tbourn/go-mushaf-backend/internal/sysutil"
)

const purgeInterval = 10 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	sysutil.ConfigureLogger(nil, cfg.LogLevel, cfg.LogPretty, sysutil.IsTruthy(os.Getenv("NO_COLOR")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// loadCorpus reads and validates the verse data. Gaps in verse numbering are
// logged, or fatal in strict mode.
func loadCorpus(cc config.CorpusConfig) (*corpus.Corpus, error) {
	c, err := corpus.LoadCorpus(cc.Path)
	if err != nil {
		var dfe *corpus.DataFormatError
		if errors.As(err, &dfe) {
			log.Error().Int("record_id", dfe.RecordID).Str("field", dfe.Field).Str("reason", dfe.Reason).Msg("corpus data format error")
		}
		return nil, err
	}
	if err := c.Validate(); err != nil {
		if cc.Strict {
			return nil, err
		}
		log.Warn().Err(err).Msg("corpus validation")
	}
	log.Info().
		Str("path", cc.Path).
		Int("chapters", c.Len()).
		Int("verses", c.VerseCount()).
		Int("pages", c.PageCount()).
		Str("checksum", c.Checksum()).
		Msg("corpus loaded")
	return c, nil
}

// dbTarget returns the sqlite path or the postgres DSN for cfg.
func dbTarget(cfg config.DBConfig) string {
	if cfg.Driver == repo.DriverPostgres {
		return cfg.DSN
	}
	return cfg.Path
}

func openDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := repo.Open(cfg.Driver, dbTarget(cfg))
	if err != nil {
		return nil, err
	}
	if err := repo.EnableTracing(db); err != nil {
		log.Warn().Err(err).Msg("gorm tracing disabled")
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// purgeIdempotency deletes expired idempotency records every interval until
// ctx is done.
func purgeIdempotency(ctx context.Context, db *gorm.DB, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency records")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("purged idempotency records")
			}
		}
	}
}

func run(ctx context.Context, cfg config.Config) error {
	corp, err := loadCorpus(cfg.Corpus)
	if err != nil {
		return err
	}

	db, err := openDB(cfg.DB)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	version := sysutil.Version()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version,
		attribute.String("corpus.checksum", corp.Checksum()),
		attribute.Int("corpus.verses", corp.VerseCount()),
	)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, corp, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go purgeIdempotency(ctx, db, purgeInterval)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("db", cfg.DB.Driver).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
