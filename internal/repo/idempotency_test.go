package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
)

// newTestDB opens an in-memory database private to t and migrates models.
func newTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// seedIdem inserts a record created at `at` that lives for ttl.
func seedIdem(t *testing.T, db *gorm.DB, user, scope, key, body string, at time.Time, ttl time.Duration) {
	t.Helper()
	rec := domain.NewIdempotency(user, scope, key, body, 200, at, ttl)
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed %s/%s/%s: %v", user, scope, key, err)
	}
}

func TestGetIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()
	const toggle = "POST /api/v1/preferences/display-mode/toggle"

	seedIdem(t, db, "u1", toggle, "live", `{"display_mode":"separate"}`, now.Add(-time.Minute), time.Hour)
	seedIdem(t, db, "u1", toggle, "stale", "{}", now.Add(-2*time.Hour), time.Hour)

	rec, err := GetIdempotency(ctx, db, "u1", toggle, "live", now)
	if err != nil || rec.Body != `{"display_mode":"separate"}` || rec.Status != 200 {
		t.Fatalf("live record: %+v err=%v", rec, err)
	}

	misses := []struct{ name, user, scope, key string }{
		{"expired", "u1", toggle, "stale"},
		{"unknown key", "u1", toggle, "other"},
		{"other user", "u2", toggle, "live"},
		{"other scope", "u1", "POST /api/v1/preferences/ui-visible/toggle", "live"},
		{"blank scope", "u1", "  ", "live"},
		{"blank key", "u1", toggle, ""},
	}
	for _, m := range misses {
		if rec, err := GetIdempotency(ctx, db, m.user, m.scope, m.key, now); rec != nil || !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: got (%v, %v), want ErrNotFound", m.name, rec, err)
		}
	}
}

func TestCreateIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	const scope = "POST /api/v1/preferences/font-size/decrease"
	before := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, "u9", scope, "k9", `{"font_size":22}`, 200, 90*time.Minute)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.Scope != scope || rec.ExpiresAt.Before(before.Add(90*time.Minute)) {
		t.Fatalf("record = %+v", rec)
	}
	got, err := GetIdempotency(ctx, db, "u9", scope, "k9", time.Now().UTC())
	if err != nil || got.ID != rec.ID {
		t.Fatalf("readback %+v err=%v", got, err)
	}

	if _, err := CreateIdempotency(ctx, db, "u9", scope, "k9", "{}", 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second create: %v, want ErrDuplicate", err)
	}
}

func TestCreateIdempotency_MissingTable(t *testing.T) {
	db := newTestDB(t)
	_, err := CreateIdempotency(context.Background(), db, "u", "s", "k", "{}", 200, time.Minute)
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want a plain store error", err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()
	seedIdem(t, db, "u1", "s", "a", "{}", now.Add(-3*time.Hour), time.Hour)
	seedIdem(t, db, "u1", "s", "b", "{}", now.Add(-2*time.Hour), time.Hour)
	seedIdem(t, db, "u1", "s", "c", "{}", now, time.Hour)

	n, err := PurgeExpiredIdempotency(context.Background(), db, now)
	if err != nil || n != 2 {
		t.Fatalf("purged %d, err=%v; want 2", n, err)
	}
	var left int64
	db.Model(&domain.Idempotency{}).Count(&left)
	if left != 1 {
		t.Fatalf("%d records left", left)
	}
}

func Test_isUniqueViolation(t *testing.T) {
	unique := []error{
		gorm.ErrDuplicatedKey,
		fmt.Errorf("wrapped: %w", gorm.ErrDuplicatedKey),
		errors.New("UNIQUE constraint failed: idempotency.user_id"),
		errors.New(`ERROR: duplicate key value violates unique constraint "x"`),
	}
	for _, err := range unique {
		if !isUniqueViolation(err) {
			t.Errorf("isUniqueViolation(%q) = false", err)
		}
	}
	if isUniqueViolation(errors.New("no such table: idempotency")) {
		t.Errorf("missing table reported as unique violation")
	}
}
