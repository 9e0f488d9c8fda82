package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
)

// ErrDuplicate means a record for the same (user, scope, key) exists, which
// happens when two retries of one action race.
var ErrDuplicate = errors.New("repo: duplicate idempotency record")

// GetIdempotency returns the live record for (userID, scope, key) at now, or
// ErrNotFound. Blank scope or key never match.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where(map[string]any{"user_id": userID, "scope": scope, "key": key}).
		Where("expires_at > ?", now).
		Take(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency stores the response of a completed action for ttl.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, scope, key, body string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	rec := domain.NewIdempotency(userID, scope, key, body, status, time.Now(), ttl)
	if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &rec, nil
}

// PurgeExpiredIdempotency deletes records no longer live at now and reports
// how many went.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// isUniqueViolation covers translated errors and the raw messages of
// drivers that do not translate.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"unique constraint failed", "constraint failed: unique", "duplicate key value"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
