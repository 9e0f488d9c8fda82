// Package repo: small aggregate queries used for conditional responses
// (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
)

// PreferencesStats returns the UpdatedAt of userID's preferences row, or nil
// when the user has none stored.
func PreferencesStats(ctx context.Context, db *gorm.DB, userID string) (updatedAt *time.Time, err error) {
	var rows []struct {
		UpdatedAt time.Time
	}
	if err = db.WithContext(ctx).
		Model(&domain.Preferences{}).
		Where("user_id = ?", userID).
		Select("updated_at").
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0].UpdatedAt, nil
}

// RecentSearchStats returns the number of stored entries for userID and the
// highest sequence number among them (0 when empty). Together they change
// whenever the list changes.
func RecentSearchStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxSeq int64, err error) {
	q := db.WithContext(ctx).Model(&domain.RecentSearch{}).Where("user_id = ?", userID)
	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}
	if err = db.WithContext(ctx).
		Model(&domain.RecentSearch{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error; err != nil {
		return 0, 0, err
	}
	return count, maxSeq, nil
}
