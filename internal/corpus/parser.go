package corpus

import (
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Parse extracts the raw href values of every <a> element in an HTML
// document, in document order. Elements without an href, or with an empty
// one, are skipped. No filtering against a corpus happens here.
func Parse(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := strings.TrimSpace(getAttr(n, "href")); href != "" {
				links = append(links, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// getAttr gets an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// normalizeLink reduces an href to the corpus-relative page name it refers
// to. It returns "" when the href cannot name a page of a flat corpus.
func normalizeLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return ""
	}
	if u.Path == "" {
		// "#top" or "?q=1" points back at the current page.
		return ""
	}

	p := path.Clean(u.Path)
	p = strings.TrimPrefix(p, "/")
	if p == "" || p == "." || strings.Contains(p, "/") {
		return ""
	}
	return normalizeName(p)
}

// normalizeName returns the NFC form of a page name.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}
