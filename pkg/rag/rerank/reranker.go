// Package rerank reorders retrieved candidates with an LLM relevance
// judgment. The pass is strictly best-effort: whatever goes wrong, the
// caller gets back the same multiset of results, in the original order if
// the model's ranking was unusable.
package rerank

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"cognihub-be/pkg/llm"
	"cognihub-be/pkg/llmjson"
	"cognihub-be/pkg/rag/retrieval"
)

// DefaultTimeout bounds a single rerank call.
const DefaultTimeout = 20 * time.Second

// maxCandidateChars is how much of each candidate's text the model sees.
const maxCandidateChars = 1200

// Config tunes the reranker. Zero values select defaults.
type Config struct {
	Model   string
	Timeout time.Duration
}

type Reranker struct {
	llmProvider llm.LLMProvider
	extractor   *llmjson.Extractor
	model       string
	timeout     time.Duration
	logger      *log.Logger
}

func NewReranker(llmProvider llm.LLMProvider, extractor *llmjson.Extractor, cfg Config, logger *log.Logger) *Reranker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reranker{
		llmProvider: llmProvider,
		extractor:   extractor,
		model:       cfg.Model,
		timeout:     timeout,
		logger:      logger,
	}
}

type candidateItem struct {
	ID         int     `json:"id"`
	SourceType string  `json:"source_type"`
	Title      *string `json:"title"`
	URL        *string `json:"url"`
	Domain     *string `json:"domain"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// Rerank asks the model for a best-to-worst ordering of the first keepN
// results and reconciles the answer against the input: each valid id is
// taken once in the order the model gave it, candidates the model never
// mentioned follow in their original relative order, and results beyond
// keepN are appended unchanged. The returned slice is always the same
// multiset as the input; any transport or parse failure, or a ranking with
// zero valid ids, yields the input untouched.
func (r *Reranker) Rerank(ctx context.Context, query string, results []retrieval.Result, keepN int) []retrieval.Result {
	if len(results) == 0 {
		return nil
	}
	if keepN < 1 {
		keepN = 1
	}
	if keepN > len(results) {
		keepN = len(results)
	}

	candidates := results[:keepN]
	items := make([]candidateItem, 0, len(candidates))
	for idx, c := range candidates {
		items = append(items, candidateItem{
			ID:         idx + 1,
			SourceType: string(c.SourceType),
			Title:      c.Title,
			URL:        c.URL,
			Domain:     c.Domain,
			Score:      c.Score,
			Text:       truncateRunes(c.Text, maxCandidateChars),
		})
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		r.logger.Printf("[WARN] Rerank candidate marshal failed, keeping original order: %v", err)
		return results
	}

	var prompt strings.Builder
	prompt.WriteString("You are reranking retrieval candidates for a RAG assistant.\n")
	prompt.WriteString("Return ONLY JSON: a list of integer ids in best-to-worst order.\n")
	prompt.WriteString("Rules:\n")
	prompt.WriteString("- Prefer items that directly answer the user question.\n")
	prompt.WriteString("- Prefer specific, factual passages.\n")
	prompt.WriteString("- Deprioritize generic boilerplate or unrelated text.\n\n")
	prompt.WriteString("User question:\n")
	prompt.WriteString(strings.TrimSpace(query))
	prompt.WriteString("\n\nCandidates JSON:\n")
	prompt.Write(itemsJSON)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	history := []llm.Message{
		{Role: "system", Content: "You are a careful ranking engine."},
		{Role: "user", Content: prompt.String()},
	}
	var opts []llm.Option
	if r.model != "" {
		opts = append(opts, llm.WithModel(r.model))
	}

	content, err := r.llmProvider.Chat(callCtx, history, opts...)
	if err != nil {
		r.logger.Printf("[WARN] Rerank LLM call failed, keeping original order: %v", err)
		return results
	}

	raw, ok := r.extractor.ExtractArray(content)
	if !ok {
		r.logger.Printf("[WARN] Rerank response had no parseable array, keeping original order")
		return results
	}

	ids := parseIDs(raw)
	picked := make([]retrieval.Result, 0, len(results))
	seen := make(map[int]bool, len(candidates))
	for _, id := range ids {
		if id < 1 || id > len(candidates) || seen[id] {
			continue
		}
		picked = append(picked, candidates[id-1])
		seen[id] = true
	}
	if len(picked) == 0 {
		return results
	}

	for i, c := range candidates {
		if !seen[i+1] {
			picked = append(picked, c)
		}
	}
	return append(picked, results[keepN:]...)
}

// parseIDs reads the ranking array leniently, the way the models actually
// answer: numbers are truncated to ints and numeric strings are accepted;
// anything else is skipped.
func parseIDs(raw json.RawMessage) []int {
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	ids := make([]int, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case float64:
			ids = append(ids, int(x))
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
				ids = append(ids, n)
			}
		}
	}
	return ids
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
