package webfetch

import (
	"strings"

	"golang.org/x/net/html"
)

// parsePage extracts the document title and visible text from raw HTML.
// Script and style contents are dropped, and runs of whitespace collapse
// to single spaces.
func parsePage(raw string) (title, text string) {
	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	var titleBuf strings.Builder
	skipDepth := 0
	inTitle := false

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(titleBuf.String()), collapseWhitespace(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				skipDepth++
			case "title":
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				if skipDepth > 0 {
					skipDepth--
				}
			case "title":
				inTitle = false
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if inTitle {
				titleBuf.Write(tokenizer.Text())
				continue
			}
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
