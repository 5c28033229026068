package llmjson

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantOK  bool
		maxSize int
	}{
		{
			name:   "object surrounded by prose",
			input:  `Sure, here you go: {"use_docs": true} hope that helps`,
			want:   `{"use_docs": true}`,
			wantOK: true,
		},
		{
			name:   "brace inside string is ignored",
			input:  `noise {"a": 1, "b": "x}y"} trailing`,
			want:   `{"a": 1, "b": "x}y"}`,
			wantOK: true,
		},
		{
			name:   "escaped quote inside string",
			input:  `{"a": "he said \"}\" loudly"}`,
			want:   `{"a": "he said \"}\" loudly"}`,
			wantOK: true,
		},
		{
			name:   "array candidate",
			input:  "The ranking is [3, 1, 2] as requested",
			want:   `[3, 1, 2]`,
			wantOK: true,
		},
		{
			name:   "nested structures",
			input:  `x {"a": [1, {"b": 2}]} y`,
			want:   `{"a": [1, {"b": 2}]}`,
			wantOK: true,
		},
		{
			name:   "malformed candidate returns nothing",
			input:  `{"a": }`,
			wantOK: false,
		},
		{
			name:   "first candidate fails, later valid span is not recovered",
			input:  `{"a": } and then {"b": 2}`,
			wantOK: false,
		},
		{
			name:   "no opener",
			input:  "plain prose with no json at all",
			wantOK: false,
		},
		{
			name:   "unterminated span",
			input:  `{"a": 1, "b": [2, 3`,
			wantOK: false,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
		{
			name:    "oversized input rejected up front",
			input:   `{"a": 1}` + strings.Repeat(" ", 100),
			maxSize: 50,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.maxSize)
			got, ok := e.Extract(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Extract() ok = %v, want %v (got %q)", ok, tt.wantOK, got)
			}
			if ok && string(got) != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractObjectSkipsLeadingArray(t *testing.T) {
	e := NewExtractor(0)
	got, ok := e.ExtractObject(`[1, 2] then {"a": 1}`)
	if !ok {
		t.Fatal("ExtractObject() failed, want object span")
	}
	if string(got) != `{"a": 1}` {
		t.Errorf("ExtractObject() = %q, want %q", got, `{"a": 1}`)
	}
}

func TestExtractArrayParsesIntoInts(t *testing.T) {
	e := NewExtractor(0)
	raw, ok := e.ExtractArray("order: [3, 1, 2]")
	if !ok {
		t.Fatal("ExtractArray() failed")
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		t.Fatalf("unmarshal extracted array: %v", err)
	}
	if len(ids) != 3 || ids[0] != 3 {
		t.Errorf("extracted ids = %v, want [3 1 2]", ids)
	}
}

func TestExtractArrayFindsNestedArray(t *testing.T) {
	// Array scans key on the first bracket, even one nested in an object.
	e := NewExtractor(0)
	raw, ok := e.ExtractArray(`{"a": [1, 2]}`)
	if !ok {
		t.Fatal("ExtractArray() failed")
	}
	if string(raw) != `[1, 2]` {
		t.Errorf("ExtractArray() = %q, want %q", raw, `[1, 2]`)
	}
}
