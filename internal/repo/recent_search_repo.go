// Package repo: repository functions for the RecentSearch model.
//
// Ordering uses a per-user Seq that only grows: each record takes
// max(previous max + 1, now in nanoseconds), so two searches inside the same
// clock tick still sort deterministically and a re-added query always
// outranks what was there before.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
)

// RecordRecentSearch moves query to the front of userID's list (inserting it
// when absent) and trims the list to limit entries. limit <= 0 disables
// trimming. The whole operation runs in one transaction.
func RecordRecentSearch(ctx context.Context, db *gorm.DB, userID, query string, limit int) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		if err := tx.Model(&domain.RecentSearch{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		next := maxSeq + 1
		if ns := now.UnixNano(); ns > next {
			next = ns
		}

		res := tx.Model(&domain.RecentSearch{}).
			Where("user_id = ? AND query = ?", userID, query).
			Updates(map[string]any{"seq": next, "searched_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			rec := &domain.RecentSearch{
				ID:         uuid.NewString(),
				UserID:     userID,
				Query:      query,
				Seq:        next,
				SearchedAt: now,
			}
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
		}

		if limit <= 0 {
			return nil
		}
		var ids []string
		if err := tx.Model(&domain.RecentSearch{}).
			Where("user_id = ?", userID).
			Order("seq desc").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) <= limit {
			return nil
		}
		return tx.Where("id IN ?", ids[limit:]).Delete(&domain.RecentSearch{}).Error
	})
}

// ListRecentSearches returns up to limit entries for userID, most recent
// first. limit <= 0 returns all.
func ListRecentSearches(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.RecentSearch, error) {
	out := []domain.RecentSearch{}
	q := db.WithContext(ctx).Where("user_id = ?", userID).Order("seq desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// DeleteRecentSearch removes one query from userID's list. It returns
// ErrNotFound when the query was not present.
func DeleteRecentSearch(ctx context.Context, db *gorm.DB, userID, query string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND query = ?", userID, query).
		Delete(&domain.RecentSearch{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearRecentSearches removes every entry for userID and reports how many
// rows were deleted.
func ClearRecentSearches(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.RecentSearch{})
	return res.RowsAffected, res.Error
}
