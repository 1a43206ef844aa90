// Package corpus turns a directory of HTML files into a page graph.
//
// # Layout
//
// A corpus is a flat directory. Every file whose name ends in ".html"
// (case-insensitive) is a page, and the page name is the file name. Files
// in subdirectories are ignored.
//
// # Links
//
// Links are the href attributes of <a> elements, extracted with
// golang.org/x/net/html so that malformed markup still yields its links.
// A link is kept only when, after normalization, it names another page of
// the same corpus:
//
//   - the query and fragment are removed ("b.html#top" is "b.html")
//   - the path is cleaned ("./b.html" is "b.html")
//   - absolute URLs with a scheme or host are skipped
//   - links to the page itself are dropped
//
// Page names and link targets are normalized to Unicode NFC so that a file
// name and a link spelled with different code point sequences still match.
//
// # Usage
//
//	g, err := corpus.Load(ctx, "corpus0")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(g.Len(), "pages")
package corpus
