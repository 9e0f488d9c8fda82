// Package services defines the business logic for reading, searching and
// per-user reader preferences. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Reader errors.
var (
	// ErrChapterNotFound indicates a chapter number outside 1..114 or absent
	// from the loaded corpus.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrVerseNotFound indicates a verse number absent from its chapter.
	ErrVerseNotFound = errors.New("verse not found")

	// ErrPageNotFound indicates a print page with no verses.
	ErrPageNotFound = errors.New("page not found")
)

// Search errors.
var (
	// ErrQueryTooLong is returned when a query exceeds the configured rune cap.
	ErrQueryTooLong = errors.New("query too long")

	// ErrRecentSearchNotFound is returned when deleting a query the user never
	// searched for (or already removed).
	ErrRecentSearchNotFound = errors.New("recent search not found")
)

// Preference errors.
var (
	// ErrInvalidFontSize is returned when a font size falls outside 18..40.
	ErrInvalidFontSize = errors.New("font size must be between 18 and 40")

	// ErrInvalidDisplayMode is returned for a display mode other than
	// "continuous" or "separate".
	ErrInvalidDisplayMode = errors.New("display mode must be continuous or separate")

	// ErrInvalidFontType is returned for a font type other than "warsh" or
	// "qaloun".
	ErrInvalidFontType = errors.New("font type must be warsh or qaloun")
)
