package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/pagerank/internal/graph"
)

// pageExt is the file extension that marks a corpus page.
const pageExt = ".html"

// Loader reads a corpus directory into a graph.
type Loader struct {
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load is shorthand for NewLoader(opts...).Load(ctx, dir).
func Load(ctx context.Context, dir string, opts ...LoaderOption) (*graph.Graph, error) {
	return NewLoader(opts...).Load(ctx, dir)
}

// Load reads every .html file directly inside dir and returns the graph of
// links between them. The returned graph is closed: every link target is a
// page of the graph.
func (l *Loader) Load(ctx context.Context, dir string) (*graph.Graph, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	files, err := pageFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPages, dir)
	}

	// Names that differ only in Unicode normalization would map two files
	// onto one page.
	pages := make(map[graph.Page]string, len(files))
	for _, name := range files {
		page := graph.Page(normalizeName(name))
		if other, ok := pages[page]; ok {
			return nil, fmt.Errorf("%w: %q and %q both name %s", ErrDuplicatePage, other, name, page)
		}
		pages[page] = name
	}

	adjacency := make(map[graph.Page][]graph.Page, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := graph.Page(normalizeName(name))
		hrefs, err := parseFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		links := make([]graph.Page, 0, len(hrefs))
		skipped := 0
		for _, href := range hrefs {
			target := graph.Page(normalizeLink(href))
			if _, ok := pages[target]; !ok || target == page {
				skipped++
				continue
			}
			links = append(links, target)
		}
		adjacency[page] = links

		l.logger.Debug("loaded page",
			"page", string(page),
			"links", len(links),
			"skipped", skipped)
	}

	g := graph.New(adjacency)
	l.logger.Debug("corpus loaded", "dir", dir, "pages", g.Len())
	return g, nil
}

// pageFiles lists the .html file names directly inside dir, sorted.
func pageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), pageExt) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// parseFile extracts the hrefs of one corpus page.
func parseFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from a directory listing
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}
