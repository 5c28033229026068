package kiwix

import (
	"strings"

	"golang.org/x/net/html"
)

// parseSearchResults pulls result links out of a kiwix-serve search page.
// Result entries are anchors with a server-relative href; search-form and
// pagination links (hrefs carrying a pattern= query) are skipped.
func parseSearchResults(page string) []SearchHit {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var hits []SearchHit
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attr(n, "href")
			if href != "" && strings.HasPrefix(href, "/") && !strings.Contains(href, "pattern=") {
				title := strings.TrimSpace(nodeText(n))
				if title != "" {
					hits = append(hits, SearchHit{Title: title, Path: href})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hits
}

// StripHTML reduces an HTML document to whitespace-normalized plain text.
// Script and style bodies are dropped.
func StripHTML(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
