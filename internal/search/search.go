package search

import (
	"strings"

	"github.com/tbourn/go-mushaf-backend/internal/corpus"
)

// Search returns every verse of c whose normalized text contains the
// normalized query, in reading order. A blank query yields nil.
func Search(c *corpus.Corpus, query string) []corpus.Verse {
	q := Normalize(query)
	if q == "" || c == nil {
		return nil
	}
	var out []corpus.Verse
	for _, ch := range c.Chapters() {
		for _, v := range ch.Verses {
			if strings.Contains(Normalize(v.Text), q) {
				out = append(out, v)
			}
		}
	}
	return out
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	maxResults int
	chapter    int
}

func defaultConfig() config {
	return config{}
}

// WithMaxResults caps the number of verses returned. n <= 0 means no cap.
func WithMaxResults(n int) Option {
	return func(c *config) {
		if n < 0 {
			n = 0
		}
		c.maxResults = n
	}
}

// WithChapter restricts the engine to one chapter. Invalid numbers are
// ignored.
func WithChapter(n int) Option {
	return func(c *config) {
		if corpus.IsChapterNumber(n) {
			c.chapter = n
		}
	}
}

// ----------------------------------------------------------------------------
// Engine

type entry struct {
	verse corpus.Verse
	norm  string
}

// Engine is a Search with every verse's normalized text computed once.
// It returns exactly what Search returns for the same corpus and query.
type Engine struct {
	cfg     config
	entries []entry
}

// NewEngine precomputes normalized verse text for c.
func NewEngine(c *corpus.Corpus, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	e := &Engine{cfg: cfg}
	if c == nil {
		return e
	}
	e.entries = make([]entry, 0, c.VerseCount())
	for _, ch := range c.Chapters() {
		if cfg.chapter != 0 && ch.Number != cfg.chapter {
			continue
		}
		for _, v := range ch.Verses {
			e.entries = append(e.entries, entry{verse: v, norm: Normalize(v.Text)})
		}
	}
	return e
}

// Len returns the number of verses the engine scans.
func (e *Engine) Len() int { return len(e.entries) }

// Search runs the query over the precomputed texts.
func (e *Engine) Search(query string) []corpus.Verse {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	var out []corpus.Verse
	for i := range e.entries {
		if !strings.Contains(e.entries[i].norm, q) {
			continue
		}
		out = append(out, e.entries[i].verse)
		if e.cfg.maxResults > 0 && len(out) >= e.cfg.maxResults {
			break
		}
	}
	return out
}
