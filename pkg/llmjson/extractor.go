// Package llmjson extracts JSON values embedded in free-form LLM output.
//
// Model responses routinely wrap the requested JSON in prose ("Sure! Here
// is the ranking: [...] hope that helps"), so callers cannot unmarshal the
// raw response directly. The extractor scans for the first balanced object
// or array span outside string literals and validates it.
package llmjson

import (
	"encoding/json"
)

// DefaultMaxSize bounds how much text the extractor will scan.
const DefaultMaxSize = 65536

// Extractor finds the first balanced JSON object or array in text.
//
// Only the first candidate span is ever considered: if the text up to the
// first balanced close does not parse, extraction is abandoned rather than
// re-scanned from a later opener. Later valid spans in the same text are
// deliberately not recovered.
type Extractor struct {
	MaxSize int
}

// NewExtractor returns an Extractor with the given input size cap.
// A cap of zero or less falls back to DefaultMaxSize.
func NewExtractor(maxSize int) *Extractor {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Extractor{MaxSize: maxSize}
}

// Extract returns the first balanced {...} or [...] span as raw JSON.
// Returns false if the input is empty, oversized, contains no opener,
// the span never closes, or the span fails to parse.
func (e *Extractor) Extract(text string) (json.RawMessage, bool) {
	return e.scan(text, "{[")
}

// ExtractObject is Extract restricted to object spans.
func (e *Extractor) ExtractObject(text string) (json.RawMessage, bool) {
	return e.scan(text, "{")
}

// ExtractArray is Extract restricted to array spans.
func (e *Extractor) ExtractArray(text string) (json.RawMessage, bool) {
	return e.scan(text, "[")
}

func (e *Extractor) scan(text string, openers string) (json.RawMessage, bool) {
	maxSize := e.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(text) == 0 || len(text) > maxSize {
		return nil, false
	}

	start := -1
	for i := 0; i < len(text); i++ {
		if isOpener(text[i], openers) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, false
	}

	depth := 0
	inString := false
	escapeNext := false
	for j := start; j < len(text); j++ {
		c := text[j]
		if escapeNext {
			escapeNext = false
			continue
		}
		switch c {
		case '\\':
			escapeNext = true
			continue
		case '"':
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				span := text[start : j+1]
				if !json.Valid([]byte(span)) {
					return nil, false
				}
				return json.RawMessage(span), true
			}
		}
	}
	return nil, false
}

func isOpener(c byte, openers string) bool {
	for i := 0; i < len(openers); i++ {
		if openers[i] == c {
			return true
		}
	}
	return false
}
