package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
	"github.com/tbourn/go-mushaf-backend/internal/repo"
)

// ----- Fake repo -----

type fakePrefsRepo struct {
	rows    map[string]domain.Preferences
	getErr  error
	saveErr error
	saves   int
}

func newFakePrefsRepo() *fakePrefsRepo {
	return &fakePrefsRepo{rows: map[string]domain.Preferences{}}
}

func (r *fakePrefsRepo) GetPreferences(ctx context.Context, db *gorm.DB, userID string) (*domain.Preferences, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.rows[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (r *fakePrefsRepo) SavePreferences(ctx context.Context, db *gorm.DB, p *domain.Preferences) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.rows[p.UserID] = *p
	return nil
}

type realPrefsRepo struct{}

func (realPrefsRepo) GetPreferences(ctx context.Context, db *gorm.DB, userID string) (*domain.Preferences, error) {
	return repo.GetPreferences(ctx, db, userID)
}

func (realPrefsRepo) SavePreferences(ctx context.Context, db *gorm.DB, p *domain.Preferences) error {
	return repo.SavePreferences(ctx, db, p)
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// ----- Tests -----

func TestPreferencesService_GetDefaultsWithoutWriting(t *testing.T) {
	r := newFakePrefsRepo()
	s := NewPreferencesService(nil, r)

	p, err := s.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := domain.DefaultPreferences("u1")
	if p.FontSize != want.FontSize || p.FontType != want.FontType || p.DisplayMode != want.DisplayMode || !p.UIVisible {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if r.saves != 0 {
		t.Fatalf("Get should not persist, saves=%d", r.saves)
	}
}

func TestPreferencesService_GetPropagatesRepoError(t *testing.T) {
	sentinel := errors.New("boom")
	r := newFakePrefsRepo()
	r.getErr = sentinel
	s := NewPreferencesService(nil, r)
	if _, err := s.Get(context.Background(), "u1"); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if _, err := s.IncreaseFontSize(context.Background(), "u1"); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel from mutation, got %v", err)
	}
}

func TestPreferencesService_FontSizeClamps(t *testing.T) {
	s := NewPreferencesService(nil, newFakePrefsRepo())
	ctx := context.Background()

	var p *domain.Preferences
	var err error
	for i := 0; i < 20; i++ {
		if p, err = s.IncreaseFontSize(ctx, "u1"); err != nil {
			t.Fatalf("IncreaseFontSize: %v", err)
		}
	}
	if p.FontSize != domain.FontSizeMax {
		t.Fatalf("expected clamp at %d, got %d", domain.FontSizeMax, p.FontSize)
	}
	for i := 0; i < 20; i++ {
		p, _ = s.DecreaseFontSize(ctx, "u1")
	}
	if p.FontSize != domain.FontSizeMin {
		t.Fatalf("expected clamp at %d, got %d", domain.FontSizeMin, p.FontSize)
	}
	p, _ = s.IncreaseFontSize(ctx, "u1")
	if p.FontSize != domain.FontSizeMin+domain.FontSizeStep {
		t.Fatalf("expected one step up, got %d", p.FontSize)
	}
}

func TestPreferencesService_Toggles(t *testing.T) {
	s := NewPreferencesService(nil, newFakePrefsRepo())
	ctx := context.Background()

	p, _ := s.ToggleDisplayMode(ctx, "u1")
	if p.DisplayMode != domain.DisplaySeparate {
		t.Fatalf("first toggle = %q", p.DisplayMode)
	}
	p, _ = s.ToggleDisplayMode(ctx, "u1")
	if p.DisplayMode != domain.DisplayContinuous {
		t.Fatalf("second toggle = %q", p.DisplayMode)
	}
	p, _ = s.ToggleUIVisible(ctx, "u1")
	if p.UIVisible {
		t.Fatalf("ui should be hidden after toggle")
	}
	p, _ = s.ToggleUIVisible(ctx, "u1")
	if !p.UIVisible {
		t.Fatalf("ui should be visible after second toggle")
	}
}

func TestPreferencesService_UpdateValidation(t *testing.T) {
	r := newFakePrefsRepo()
	s := NewPreferencesService(nil, r)
	ctx := context.Background()

	cases := []struct {
		name string
		u    PreferencesUpdate
		want error
	}{
		{"font too small", PreferencesUpdate{FontSize: intPtr(17)}, ErrInvalidFontSize},
		{"font too large", PreferencesUpdate{FontSize: intPtr(41)}, ErrInvalidFontSize},
		{"font type", PreferencesUpdate{FontType: strPtr("hafs")}, ErrInvalidFontType},
		{"display mode", PreferencesUpdate{DisplayMode: strPtr("grid")}, ErrInvalidDisplayMode},
		{"last chapter", PreferencesUpdate{LastChapter: intPtr(115)}, ErrChapterNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Update(ctx, "u1", tc.u); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
	if r.saves != 0 {
		t.Fatalf("invalid updates must not save, saves=%d", r.saves)
	}

	p, err := s.Update(ctx, "u1", PreferencesUpdate{
		FontSize:    intPtr(30),
		FontType:    strPtr(domain.FontQaloun),
		UIVisible:   boolPtr(false),
		LastChapter: intPtr(2),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.FontSize != 30 || p.FontType != domain.FontQaloun || p.UIVisible || p.LastChapter != 2 || p.DisplayMode != domain.DisplayContinuous {
		t.Fatalf("unexpected result: %+v", p)
	}
}

func TestPreferencesService_SaveErrorSurfaces(t *testing.T) {
	sentinel := errors.New("disk full")
	r := newFakePrefsRepo()
	r.saveErr = sentinel
	s := NewPreferencesService(nil, r)
	if _, err := s.ToggleUIVisible(context.Background(), "u1"); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
}

func TestPreferencesService_WithSQLite(t *testing.T) {
	db := newSvcDB(t, &domain.Preferences{})
	s := NewPreferencesService(db, realPrefsRepo{})
	ctx := context.Background()

	if _, err := s.ToggleUIVisible(ctx, "u1"); err != nil {
		t.Fatalf("ToggleUIVisible: %v", err)
	}
	if _, err := s.DecreaseFontSize(ctx, "u1"); err != nil {
		t.Fatalf("DecreaseFontSize: %v", err)
	}
	p, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.UIVisible || p.FontSize != domain.FontSizeDefault-domain.FontSizeStep {
		t.Fatalf("state not persisted: %+v", p)
	}
	other, _ := s.Get(ctx, "u2")
	if !other.UIVisible || other.FontSize != domain.FontSizeDefault {
		t.Fatalf("users should be isolated: %+v", other)
	}
}
