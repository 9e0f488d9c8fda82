package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrDataFormat is matched (via errors.Is) by every *DataFormatError.
	ErrDataFormat = errors.New("corpus data format error")

	// ErrChapterNotFound is returned for chapter numbers outside 1..114 or
	// absent from the corpus.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrVerseNotFound is returned when a chapter has no verse with the
	// requested number.
	ErrVerseNotFound = errors.New("verse not found")
)

// DataFormatError reports a malformed record in the source data. It names the
// offending record id and field so a broken dataset can be fixed at build
// time.
type DataFormatError struct {
	RecordID int
	Field    string
	Reason   string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("corpus: record %d: field %q: %s", e.RecordID, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrDataFormat) match.
func (e *DataFormatError) Unwrap() error { return ErrDataFormat }

func formatErr(id int, field, format string, args ...any) *DataFormatError {
	return &DataFormatError{RecordID: id, Field: field, Reason: fmt.Sprintf(format, args...)}
}
