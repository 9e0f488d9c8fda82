package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestNewIdempotency(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("AST", 3*3600))
	rec := NewIdempotency("u1", "POST /preferences/font-size/increase", "k1", `{"font_size":26}`, 200, at, time.Hour)

	if rec.ID == "" || rec.UserID != "u1" || rec.Key != "k1" || rec.Status != 200 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.CreatedAt.Location() != time.UTC || !rec.CreatedAt.Equal(at) {
		t.Fatalf("CreatedAt = %v", rec.CreatedAt)
	}
	if !rec.ExpiresAt.Equal(at.Add(time.Hour)) {
		t.Fatalf("ExpiresAt = %v", rec.ExpiresAt)
	}
	if other := NewIdempotency("u1", rec.Scope, "k1", "{}", 200, at, time.Hour); other.ID == rec.ID {
		t.Fatalf("ids must be unique")
	}

	if !rec.Live(at) || !rec.Live(at.Add(59*time.Minute)) {
		t.Fatalf("record should be live inside its ttl")
	}
	if rec.Live(at.Add(time.Hour)) || rec.Live(at.Add(2*time.Hour)) {
		t.Fatalf("record should expire at ExpiresAt")
	}
}

func TestIdempotency_Schema(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&Idempotency{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	m := db.Migrator()
	if !m.HasTable("idempotency") {
		t.Fatalf("table idempotency missing")
	}
	for _, idx := range []string{"ux_user_scope_key", "idx_idempotency_expires_at"} {
		if !m.HasIndex(&Idempotency{}, idx) {
			t.Fatalf("index %s missing", idx)
		}
	}

	now := time.Now()
	insert := func(user, scope, key string) error {
		rec := NewIdempotency(user, scope, key, "{}", 200, now, time.Hour)
		return db.Create(&rec).Error
	}
	if err := insert("u1", "POST /font-size/increase", "k1"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	// The unique key spans user, scope and key.
	if err := insert("u1", "POST /display-mode/toggle", "k1"); err != nil {
		t.Fatalf("other scope: %v", err)
	}
	if err := insert("u2", "POST /font-size/increase", "k1"); err != nil {
		t.Fatalf("other user: %v", err)
	}
	if err := insert("u1", "POST /font-size/increase", "k1"); err == nil {
		t.Fatalf("duplicate (user, scope, key) accepted")
	}

	// Body and status are required.
	err := db.Exec(`INSERT INTO idempotency (id, user_id, scope, key, body, status, created_at, expires_at)
		VALUES ('x', 'u3', 's', 'k', NULL, 200, ?, ?)`, now, now.Add(time.Hour)).Error
	if err == nil {
		t.Fatalf("NULL body accepted")
	}
}
