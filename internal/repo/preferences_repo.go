// Package repo: repository functions for the Preferences model.
//
// All functions are context-aware and accept a *gorm.DB handle, so they work
// inside transactions as well. No business rules live here; clamping and
// validation belong to services.PreferencesService.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
)

// GetPreferences fetches the stored preferences for userID, or ErrNotFound.
func GetPreferences(ctx context.Context, db *gorm.DB, userID string) (*domain.Preferences, error) {
	var p domain.Preferences
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePreferences inserts or fully replaces the row for p.UserID.
// UpdatedAt is set to now; CreatedAt is kept on update.
func SavePreferences(ctx context.Context, db *gorm.DB, p *domain.Preferences) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"font_size", "font_type", "display_mode", "ui_visible", "last_chapter", "updated_at",
			}),
		}).
		Create(p).Error
}

// DeletePreferences removes the row for userID. Missing rows are not an error.
func DeletePreferences(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Preferences{}).Error
}
