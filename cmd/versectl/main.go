// Command versectl inspects a verse data file from the terminal: search,
// highlight, chapter listings and data validation, using the same code paths
// as the server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/tbourn/go-mushaf-backend/internal/corpus"
	"github.com/tbourn/go-mushaf-backend/internal/search"
)

// Globals are flags shared by every command.
type Globals struct {
	Data string `name:"data" short:"d" default:"data/quran.json" env:"CORPUS_PATH" type:"path" help:"Verse data file (JSON, optionally .xz)"`
	JSON bool   `name:"json" help:"Print JSON instead of text"`
}

// CLI is the versectl command tree.
type CLI struct {
	Globals

	Search    SearchCmd    `cmd:"" help:"Search verses (diacritics ignored)"`
	Highlight HighlightCmd `cmd:"" help:"Highlight a query inside a text"`
	Chapters  ChaptersCmd  `cmd:"" help:"List chapters"`
	Chapter   ChapterCmd   `cmd:"" help:"Print one chapter"`
	Validate  ValidateCmd  `cmd:"" help:"Check the data file and report the first defect"`
}

// SearchCmd prints matching verses in reading order.
type SearchCmd struct {
	Query   []string `arg:"" required:"" help:"Search text"`
	Chapter int      `name:"chapter" short:"c" help:"Restrict to one chapter"`
	Limit   int      `name:"limit" short:"n" default:"0" help:"Maximum results (0 = all)"`
}

func (s *SearchCmd) Run(g *Globals, out io.Writer) error {
	c, err := corpus.LoadCorpus(g.Data)
	if err != nil {
		return err
	}
	if s.Chapter != 0 {
		if _, err := c.Chapter(s.Chapter); err != nil {
			return fmt.Errorf("chapter %d: %w", s.Chapter, err)
		}
	}
	query := strings.Join(s.Query, " ")
	eng := search.NewEngine(c, search.WithChapter(s.Chapter), search.WithMaxResults(s.Limit))
	hits := eng.Search(query)
	if g.JSON {
		if hits == nil {
			hits = []corpus.Verse{}
		}
		return writeJSON(out, hits)
	}
	for _, v := range hits {
		fmt.Fprintf(out, "%d:%d\t%s\n", v.ChapterNumber, v.VerseNumber, render(search.Highlight(v.Text, query)))
	}
	fmt.Fprintf(out, "%d result(s)\n", len(hits))
	return nil
}

// HighlightCmd marks matches with [brackets].
type HighlightCmd struct {
	Text  string `arg:"" help:"Text to highlight"`
	Query string `arg:"" help:"Search text"`
}

func (h *HighlightCmd) Run(g *Globals, out io.Writer) error {
	segs := search.Highlight(h.Text, h.Query)
	if g.JSON {
		return writeJSON(out, segs)
	}
	fmt.Fprintln(out, render(segs))
	return nil
}

// ChaptersCmd lists every chapter.
type ChaptersCmd struct{}

func (ChaptersCmd) Run(g *Globals, out io.Writer) error {
	c, err := corpus.LoadCorpus(g.Data)
	if err != nil {
		return err
	}
	type row struct {
		Number     int    `json:"number"`
		NameNative string `json:"name_native"`
		NameLatin  string `json:"name_latin"`
		Verses     int    `json:"verse_count"`
		FirstPage  int    `json:"first_page"`
	}
	rows := make([]row, 0, c.Len())
	for i := range c.Chapters() {
		ch := &c.Chapters()[i]
		rows = append(rows, row{ch.Number, ch.NameNative, ch.NameLatin, ch.VerseCount(), ch.FirstPage()})
	}
	if g.JSON {
		return writeJSON(out, rows)
	}
	for _, r := range rows {
		fmt.Fprintf(out, "%3d  %-20s %s\t%d verses, page %d\n", r.Number, r.NameLatin, r.NameNative, r.Verses, r.FirstPage)
	}
	return nil
}

// ChapterCmd prints the verses of one chapter.
type ChapterCmd struct {
	Number int `arg:"" help:"Chapter number (1-114)"`
}

func (cc *ChapterCmd) Run(g *Globals, out io.Writer) error {
	c, err := corpus.LoadCorpus(g.Data)
	if err != nil {
		return err
	}
	ch, err := c.Chapter(cc.Number)
	if err != nil {
		return fmt.Errorf("chapter %d: %w", cc.Number, err)
	}
	if g.JSON {
		return writeJSON(out, ch)
	}
	fmt.Fprintf(out, "%d. %s (%s)\n", ch.Number, ch.NameLatin, ch.NameNative)
	for _, v := range ch.Verses {
		fmt.Fprintf(out, "%d\t%s\n", v.VerseNumber, search.StripMarkers(v.Text))
	}
	return nil
}

// ValidateCmd builds and validates the data file.
type ValidateCmd struct{}

func (ValidateCmd) Run(g *Globals, out io.Writer) error {
	c, err := corpus.LoadCorpus(g.Data)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "ok: %d chapters, %d verses, %d pages, checksum %s\n",
		c.Len(), c.VerseCount(), c.PageCount(), c.Checksum())
	return nil
}

// render brackets highlighted segments.
func render(segs []search.TextSegment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.IsHighlighted {
			b.WriteString("[" + s.Text + "]")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// run parses args and executes the selected command, writing to out.
func run(args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("versectl"),
		kong.Description("Inspect and search a verse data file."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(out, out),
		kong.BindTo(out, (*io.Writer)(nil)),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return ctx.Run(&cli.Globals)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "versectl:", err)
		os.Exit(1)
	}
}
