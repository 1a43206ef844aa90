package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nao1215/pagerank/internal/graph"
)

// writeCorpus creates the given files in a temporary directory.
func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("builds the link graph", func(t *testing.T) {
		t.Parallel()

		dir := writeCorpus(t, map[string]string{
			"1.html": `<a href="2.html">2</a>`,
			"2.html": `<a href="1.html">1</a><a href="3.html">3</a>`,
			"3.html": `<a href="2.html">2</a><a href="4.html">4</a>`,
			"4.html": `<a href="2.html">2</a>`,
		})

		g, err := Load(context.Background(), dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if g.Len() != 4 {
			t.Fatalf("Len() = %d, want 4", g.Len())
		}
		want := map[graph.Page][]graph.Page{
			"1.html": {"2.html"},
			"2.html": {"1.html", "3.html"},
			"3.html": {"2.html", "4.html"},
			"4.html": {"2.html"},
		}
		for page, links := range want {
			if got := g.Links(page); !slices.Equal(got, links) {
				t.Errorf("Links(%s) = %v, want %v", page, got, links)
			}
		}
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("drops self links and links outside the corpus", func(t *testing.T) {
		t.Parallel()

		dir := writeCorpus(t, map[string]string{
			"a.html": `<a href="a.html">me</a><a href="missing.html">?</a>
				<a href="https://example.com/b.html">ext</a><a href="b.html#x">b</a>`,
			"b.html": `<p>no links</p>`,
		})

		g, err := Load(context.Background(), dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if got := g.Links("a.html"); !slices.Equal(got, []graph.Page{"b.html"}) {
			t.Errorf("Links(a.html) = %v, want [b.html]", got)
		}
		if !g.IsSink("b.html") {
			t.Error("b.html should be a sink")
		}
	})

	t.Run("collapses duplicate links", func(t *testing.T) {
		t.Parallel()

		dir := writeCorpus(t, map[string]string{
			"a.html": `<a href="b.html">1</a><a href="./b.html">2</a><a href="b.html?x=1">3</a>`,
			"b.html": ``,
		})

		g, err := Load(context.Background(), dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if g.OutDegree("a.html") != 1 {
			t.Errorf("OutDegree(a.html) = %d, want 1", g.OutDegree("a.html"))
		}
	})

	t.Run("ignores non-html files and subdirectories", func(t *testing.T) {
		t.Parallel()

		dir := writeCorpus(t, map[string]string{
			"a.html":    `<a href="notes.txt">n</a>`,
			"notes.txt": `<a href="a.html">a</a>`,
		})
		sub := filepath.Join(dir, "sub.html")
		if err := os.Mkdir(sub, 0o750); err != nil {
			t.Fatalf("failed to create subdirectory: %v", err)
		}

		g, err := Load(context.Background(), dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !slices.Equal(g.Pages(), []graph.Page{"a.html"}) {
			t.Errorf("Pages() = %v, want [a.html]", g.Pages())
		}
	})

	t.Run("matches names across unicode normalization forms", func(t *testing.T) {
		t.Parallel()

		dir := writeCorpus(t, map[string]string{
			"cafe\u0301.html": `<a href="index.html">home</a>`,
			"index.html":       "<a href=\"caf\u00e9.html\">cafe</a>",
		})

		g, err := Load(context.Background(), dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := g.Links("index.html"); !slices.Equal(got, []graph.Page{"caf\u00e9.html"}) {
			t.Errorf("Links(index.html) = %v, want [caf\u00e9.html]", got)
		}
	})
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Load() error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		t.Parallel()

		dir := writeCorpus(t, map[string]string{"a.html": ``})
		_, err := Load(context.Background(), filepath.Join(dir, "a.html"))
		if !errors.Is(err, ErrNotDirectory) {
			t.Errorf("Load() error = %v, want ErrNotDirectory", err)
		}
	})

	t.Run("no pages", func(t *testing.T) {
		t.Parallel()

		dir := writeCorpus(t, map[string]string{"readme.md": `# nothing`})
		_, err := Load(context.Background(), dir)
		if !errors.Is(err, ErrNoPages) {
			t.Errorf("Load() error = %v, want ErrNoPages", err)
		}
	})

	t.Run("names equal after normalization", func(t *testing.T) {
		t.Parallel()

		dir := writeCorpus(t, map[string]string{
			"cafe\u0301.html": `<a href="index.html">decomposed</a>`,
			"caf\u00e9.html":  `<a href="index.html">composed</a>`,
			"index.html":       ``,
		})
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 3 {
			t.Skip("file system normalizes file names")
		}

		_, err = Load(context.Background(), dir)
		if !errors.Is(err, ErrDuplicatePage) {
			t.Errorf("Load() error = %v, want ErrDuplicatePage", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		dir := writeCorpus(t, map[string]string{"a.html": ``})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Load(ctx, dir)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Load() error = %v, want context.Canceled", err)
		}
	})
}
