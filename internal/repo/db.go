// Package repo persists reader state with GORM: preferences, recent searches
// and the stored responses of idempotent preference actions. The corpus
// itself is never stored here.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
)

// ErrNotFound is gorm.ErrRecordNotFound, so errors.Is works with either.
var ErrNotFound = gorm.ErrRecordNotFound

// DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqlitePragmas run on every new SQLite handle. WAL lets readers proceed
// while a preference write commits.
var sqlitePragmas = []string{
	"journal_mode=WAL",
	"synchronous=NORMAL",
	"foreign_keys=ON",
	"busy_timeout=5000",
}

// pool sizes the database/sql pool per driver.
type pool struct {
	maxConns int
	idleTime time.Duration
	lifetime time.Duration
}

var (
	sqlitePool   = pool{maxConns: 10, idleTime: 5 * time.Minute, lifetime: 30 * time.Minute}
	postgresPool = pool{maxConns: 20, idleTime: 5 * time.Minute, lifetime: 30 * time.Minute}
)

func (p pool) apply(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(p.maxConns)
	sqlDB.SetMaxIdleConns(p.maxConns)
	sqlDB.SetConnMaxIdleTime(p.idleTime)
	sqlDB.SetConnMaxLifetime(p.lifetime)
	return nil
}

// gormConfig turns driver unique violations into gorm.ErrDuplicatedKey.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Open connects with driver ("" means sqlite). target is a file path for
// sqlite and a DSN for postgres.
func Open(driver, target string) (*gorm.DB, error) {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "", DriverSQLite:
		return OpenSQLite(target)
	case DriverPostgres:
		return OpenPostgres(target)
	default:
		return nil, fmt.Errorf("repo: unsupported driver %q", driver)
	}
}

// OpenSQLite opens or creates the database file at path. The parent
// directory must already exist.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("repo: sqlite directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}
	var errs []error
	for _, p := range sqlitePragmas {
		if err := db.Exec("PRAGMA " + p).Error; err != nil {
			errs = append(errs, fmt.Errorf("PRAGMA %s: %w", p, err))
		}
	}
	errs = append(errs, sqlitePool.apply(db))
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("repo: sqlite setup: %w", err)
	}
	return db, nil
}

// OpenPostgres connects using dsn.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("repo: postgres dsn is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}
	if err := postgresPool.apply(db); err != nil {
		return nil, err
	}
	return db, nil
}

// EnableTracing records every query as a span of the request that issued it.
func EnableTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(tracing.WithoutMetrics()))
}

// AutoMigrate creates or updates the reader-state tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Preferences{},
		&domain.RecentSearch{},
		&domain.Idempotency{},
	)
}
