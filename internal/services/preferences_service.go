// PreferencesService manages per-user reader settings: font size (stepped and
// clamped to 18..40), font type, display mode (continuous or separate), UI
// chrome visibility and the last chapter opened. Users with nothing stored get
// the defaults without a row being written; the first mutation persists them.

package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-mushaf-backend/internal/corpus"
	"github.com/tbourn/go-mushaf-backend/internal/domain"
	"github.com/tbourn/go-mushaf-backend/internal/repo"
)

// PreferencesRepo defines the repository contract required by
// PreferencesService.
type PreferencesRepo interface {
	// GetPreferences returns the stored row or repo.ErrNotFound.
	GetPreferences(ctx context.Context, db *gorm.DB, userID string) (*domain.Preferences, error)
	// SavePreferences inserts or replaces the row for p.UserID.
	SavePreferences(ctx context.Context, db *gorm.DB, p *domain.Preferences) error
}

// PreferencesUpdate is a partial update; nil fields are left unchanged.
type PreferencesUpdate struct {
	FontSize    *int
	FontType    *string
	DisplayMode *string
	UIVisible   *bool
	LastChapter *int
}

// PreferencesService implements the preference use-cases.
type PreferencesService struct {
	// DB is the GORM handle. When non-nil, each mutation runs in its own
	// transaction.
	DB *gorm.DB
	// Repo is the preferences repository used by this service.
	Repo PreferencesRepo
}

// NewPreferencesService constructs a PreferencesService.
func NewPreferencesService(db *gorm.DB, r PreferencesRepo) *PreferencesService {
	return &PreferencesService{DB: db, Repo: r}
}

// Get returns userID's preferences, or the defaults when none are stored.
func (s *PreferencesService) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	ctx, span := otel.Tracer("services/PreferencesService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return s.load(ctx, s.DB, userID)
}

// Update validates and applies u. Out-of-range values are rejected rather
// than clamped.
func (s *PreferencesService) Update(ctx context.Context, userID string, u PreferencesUpdate) (*domain.Preferences, error) {
	if u.FontSize != nil && (*u.FontSize < domain.FontSizeMin || *u.FontSize > domain.FontSizeMax) {
		return nil, ErrInvalidFontSize
	}
	if u.FontType != nil && !domain.ValidFontType(*u.FontType) {
		return nil, ErrInvalidFontType
	}
	if u.DisplayMode != nil && !domain.ValidDisplayMode(*u.DisplayMode) {
		return nil, ErrInvalidDisplayMode
	}
	if u.LastChapter != nil && *u.LastChapter != 0 && !corpus.IsChapterNumber(*u.LastChapter) {
		return nil, ErrChapterNotFound
	}
	return s.mutate(ctx, "Update", userID, func(p *domain.Preferences) {
		if u.FontSize != nil {
			p.FontSize = *u.FontSize
		}
		if u.FontType != nil {
			p.FontType = *u.FontType
		}
		if u.DisplayMode != nil {
			p.DisplayMode = *u.DisplayMode
		}
		if u.UIVisible != nil {
			p.UIVisible = *u.UIVisible
		}
		if u.LastChapter != nil {
			p.LastChapter = *u.LastChapter
		}
	})
}

// IncreaseFontSize adds one step, stopping at the maximum.
func (s *PreferencesService) IncreaseFontSize(ctx context.Context, userID string) (*domain.Preferences, error) {
	return s.mutate(ctx, "IncreaseFontSize", userID, func(p *domain.Preferences) {
		p.FontSize = domain.ClampFontSize(p.FontSize + domain.FontSizeStep)
	})
}

// DecreaseFontSize removes one step, stopping at the minimum.
func (s *PreferencesService) DecreaseFontSize(ctx context.Context, userID string) (*domain.Preferences, error) {
	return s.mutate(ctx, "DecreaseFontSize", userID, func(p *domain.Preferences) {
		p.FontSize = domain.ClampFontSize(p.FontSize - domain.FontSizeStep)
	})
}

// ToggleDisplayMode switches between continuous and separate.
func (s *PreferencesService) ToggleDisplayMode(ctx context.Context, userID string) (*domain.Preferences, error) {
	return s.mutate(ctx, "ToggleDisplayMode", userID, func(p *domain.Preferences) {
		if p.DisplayMode == domain.DisplayContinuous {
			p.DisplayMode = domain.DisplaySeparate
		} else {
			p.DisplayMode = domain.DisplayContinuous
		}
	})
}

// ToggleUIVisible flips UI chrome visibility.
func (s *PreferencesService) ToggleUIVisible(ctx context.Context, userID string) (*domain.Preferences, error) {
	return s.mutate(ctx, "ToggleUIVisible", userID, func(p *domain.Preferences) {
		p.UIVisible = !p.UIVisible
	})
}

func (s *PreferencesService) load(ctx context.Context, db *gorm.DB, userID string) (*domain.Preferences, error) {
	p, err := s.Repo.GetPreferences(ctx, db, userID)
	if errors.Is(err, repo.ErrNotFound) {
		d := domain.DefaultPreferences(userID)
		return &d, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// mutate loads (or defaults) the row, applies fn and saves the result.
func (s *PreferencesService) mutate(ctx context.Context, op, userID string, fn func(*domain.Preferences)) (*domain.Preferences, error) {
	ctx, span := otel.Tracer("services/PreferencesService").Start(ctx, op,
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	var out *domain.Preferences
	run := func(db *gorm.DB) error {
		p, err := s.load(ctx, db, userID)
		if err != nil {
			return err
		}
		fn(p)
		if err := s.Repo.SavePreferences(ctx, db, p); err != nil {
			return err
		}
		out = p
		return nil
	}

	var err error
	if s.DB == nil {
		err = run(nil)
	} else {
		err = s.DB.WithContext(ctx).Transaction(run)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}
