package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello", 100, 20)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("expected single chunk with original text, got %v", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("a", 10) + strings.Repeat("b", 10) + strings.Repeat("c", 10)
	chunks := SplitText(text, 12, 4)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-4:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Errorf("chunk %d does not overlap with previous: %q vs %q", i, chunks[i], prevTail)
		}
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("x", 100)
	chunks := SplitText(text, 30, 10)

	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("final chunk must end where the input ends")
	}

	var rebuilt strings.Builder
	step := 30 - 10
	for i, c := range chunks {
		if i == 0 {
			rebuilt.WriteString(c)
			continue
		}
		if len(c) > step {
			rebuilt.WriteString(c[len(c)-min(step, len(c)):])
		} else {
			rebuilt.WriteString(c)
		}
	}
	if rebuilt.Len() < len(text) {
		t.Errorf("chunks drop input: rebuilt %d chars of %d", rebuilt.Len(), len(text))
	}
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	// Pathological config falls back to non-overlapping steps instead
	// of looping forever.
	text := strings.Repeat("y", 50)
	chunks := SplitText(text, 10, 10)

	if len(chunks) != 5 {
		t.Errorf("expected 5 non-overlapping chunks, got %d", len(chunks))
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 20)
	chunks := SplitText(text, 25, 5)

	for i, c := range chunks {
		if strings.ContainsRune(c, '�') {
			t.Errorf("chunk %d contains a broken rune: %q", i, c)
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
