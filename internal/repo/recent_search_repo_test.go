package repo

import (
	"context"
	"reflect"
	"testing"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
)

func queries(rs []domain.RecentSearch) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Query)
	}
	return out
}

func TestRecentSearch_RecordOrderDedupeAndCap(t *testing.T) {
	db := newTestDB(t, &domain.RecentSearch{})
	ctx := context.Background()

	for _, q := range []string{"a", "b", "c", "b", "d", "e", "f"} {
		if err := RecordRecentSearch(ctx, db, "u1", q, 5); err != nil {
			t.Fatalf("record %q: %v", q, err)
		}
	}
	got, err := ListRecentSearches(ctx, db, "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"f", "e", "d", "b", "c"}
	if !reflect.DeepEqual(queries(got), want) {
		t.Fatalf("list = %v; want %v", queries(got), want)
	}

	// another user is unaffected
	if err := RecordRecentSearch(ctx, db, "u2", "z", 5); err != nil {
		t.Fatalf("record u2: %v", err)
	}
	got, _ = ListRecentSearches(ctx, db, "u1", 2)
	if !reflect.DeepEqual(queries(got), []string{"f", "e"}) {
		t.Fatalf("limited list = %v", queries(got))
	}
}

func TestRecentSearch_NoLimitKeepsAll(t *testing.T) {
	db := newTestDB(t, &domain.RecentSearch{})
	ctx := context.Background()
	for _, q := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		if err := RecordRecentSearch(ctx, db, "u1", q, 0); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	got, _ := ListRecentSearches(ctx, db, "u1", 0)
	if len(got) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(got))
	}
}

func TestRecentSearch_DeleteAndClear(t *testing.T) {
	db := newTestDB(t, &domain.RecentSearch{})
	ctx := context.Background()
	for _, q := range []string{"x", "y", "z"} {
		_ = RecordRecentSearch(ctx, db, "u1", q, 5)
	}

	if err := DeleteRecentSearch(ctx, db, "u1", "y"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := DeleteRecentSearch(ctx, db, "u1", "y"); err != ErrNotFound {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
	got, _ := ListRecentSearches(ctx, db, "u1", 0)
	if !reflect.DeepEqual(queries(got), []string{"z", "x"}) {
		t.Fatalf("after delete = %v", queries(got))
	}

	n, err := ClearRecentSearches(ctx, db, "u1")
	if err != nil || n != 2 {
		t.Fatalf("clear = %d, %v", n, err)
	}
	got, _ = ListRecentSearches(ctx, db, "u1", 0)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestRecentSearch_Error_NoTable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if err := RecordRecentSearch(ctx, db, "u1", "q", 5); err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if _, err := ListRecentSearches(ctx, db, "u1", 5); err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err := DeleteRecentSearch(ctx, db, "u1", "q"); err == nil || err == ErrNotFound {
		t.Fatalf("expected raw DB error, got %v", err)
	}
}
