// Package retrieval turns a free-text query into a ranked, deduplicated,
// diversified list of evidence chunks drawn from the document, web and
// kiwix stores.
package retrieval

import "fmt"

// SourceType identifies which store a result came from.
type SourceType string

const (
	SourceDoc   SourceType = "doc"
	SourceWeb   SourceType = "web"
	SourceKiwix SourceType = "kiwix"
)

// Result is one retrieved evidence chunk. Scores are similarity values in
// a source-specific range; they are not renormalized across sources, so
// callers ranking doc/web/kiwix results together accept mixed scales.
type Result struct {
	SourceType SourceType     `json:"source_type"`
	RefID      string         `json:"ref_id"`
	ChunkID    int64          `json:"chunk_id"`
	Title      *string        `json:"title"`
	URL        *string        `json:"url"`
	Domain     *string        `json:"domain"`
	Score      float64        `json:"score"`
	Text       string         `json:"text"`
	Meta       map[string]any `json:"meta"`
}

// RefID builds the stable source-qualified identifier used for
// deduplication, pinning and exclusion downstream.
func RefID(source SourceType, chunkID int64) string {
	return fmt.Sprintf("%s:%d", source, chunkID)
}
