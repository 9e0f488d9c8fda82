package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tbourn/go-mushaf-backend/internal/config"
	"github.com/tbourn/go-mushaf-backend/internal/corpus"
	"github.com/tbourn/go-mushaf-backend/internal/repo"
)

func writeCorpus(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "quran.json")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

const gapCorpus = `[
 {"id":1,"sura_no":1,"sura_name_ar":"الفاتحة","sura_name_en":"Al-Fatihah","page":1,"aya_no":1,"aya_text":"بسم الله"},
 {"id":2,"sura_no":1,"sura_name_ar":"الفاتحة","sura_name_en":"Al-Fatihah","page":"1","aya_no":3,"aya_text":"الرحمن الرحيم"}
]`

func TestLoadCorpus_StrictAndLenient(t *testing.T) {
	p := writeCorpus(t, gapCorpus)

	c, err := loadCorpus(config.CorpusConfig{Path: p})
	if err != nil {
		t.Fatalf("lenient load: %v", err)
	}
	if c.VerseCount() != 2 {
		t.Fatalf("verses=%d", c.VerseCount())
	}

	if _, err := loadCorpus(config.CorpusConfig{Path: p, Strict: true}); !errors.Is(err, corpus.ErrDataFormat) {
		t.Fatalf("strict load err=%v, want data format error", err)
	}
}

func TestLoadCorpus_BadRecord(t *testing.T) {
	p := writeCorpus(t, `[{"id":7,"sura_no":200,"sura_name_ar":"x","sura_name_en":"x","page":1,"aya_no":1,"aya_text":"x"}]`)
	_, err := loadCorpus(config.CorpusConfig{Path: p})
	var dfe *corpus.DataFormatError
	if !errors.As(err, &dfe) || dfe.RecordID != 7 {
		t.Fatalf("err=%v", err)
	}
}

func TestDBTarget(t *testing.T) {
	if got := dbTarget(config.DBConfig{Driver: "sqlite", Path: "a.db", DSN: "x"}); got != "a.db" {
		t.Fatalf("sqlite target=%q", got)
	}
	if got := dbTarget(config.DBConfig{Driver: "postgres", Path: "a.db", DSN: "host=db"}); got != "host=db" {
		t.Fatalf("postgres target=%q", got)
	}
}

func TestOpenDB_SQLiteAndPurge(t *testing.T) {
	db, err := openDB(config.DBConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "m.db")})
	if err != nil {
		t.Fatalf("openDB: %v", err)
	}
	ctx := context.Background()
	if _, err := repo.CreateIdempotency(ctx, db, "u", "POST /x", "k", "{}", 200, time.Millisecond); err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		purgeIdempotency(cctx, db, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		rec, err := repo.GetIdempotency(ctx, db, "u", "POST /x", "k", time.Time{})
		if errors.Is(err, repo.ErrNotFound) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expired record not purged (rec=%v err=%v)", rec, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done
}
