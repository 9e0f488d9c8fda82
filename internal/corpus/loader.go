package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// xzNewReader is a seam for tests.
var xzNewReader = func(r io.Reader) (io.Reader, error) { return xz.NewReader(r) }

// Decode reads a JSON array of records from r.
func Decode(r io.Reader) ([]RawVerseRecord, error) {
	var out []RawVerseRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return out, nil
}

// Load reads the records stored at path. Files ending in ".xz" are
// decompressed on the fly.
func Load(path string) ([]RawVerseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		zr, err := xzNewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz corpus: %w", err)
		}
		r = zr
	}
	return Decode(r)
}

// LoadCorpus is Load followed by Build.
func LoadCorpus(path string) (*Corpus, error) {
	recs, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Build(recs)
}
