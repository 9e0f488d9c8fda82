package handlers

// Error codes carried in ErrorResponse.Code. Clients branch on these, never
// on Message, so existing values must not change.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Written by middleware; listed so the API has one catalogue.
	ErrCodeRateLimited           = "too_many_requests"
	ErrCodeInvalidIdempotencyKey = "invalid_idempotency_key"

	// A missing chapter and a missing verse inside an existing chapter are
	// told apart so a reader can fall back to the chapter view.
	ErrCodeChapterNotFound = "chapter_not_found"
	ErrCodeVerseNotFound   = "verse_not_found"
	ErrCodePageNotFound    = "page_not_found"

	ErrCodeQueryTooLong         = "query_too_long"
	ErrCodeRecentSearchNotFound = "recent_search_not_found"
	ErrCodeSearchFailed         = "search_failed"

	ErrCodeInvalidPreferences = "invalid_preferences"
	ErrCodePreferencesFailed  = "preferences_failed"
)
