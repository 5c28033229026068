// Package routing decides which evidence sources a query should hit and
// how to phrase each source's sub-query, using a local LLM with a strict
// JSON contract. Every failure path returns the caller's defaults: routing
// can improve a retrieval, never prevent one.
package routing

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"cognihub-be/pkg/llm"
	"cognihub-be/pkg/llmjson"
)

// DefaultTimeout bounds a single routing call.
const DefaultTimeout = 12 * time.Second

// Decision selects sources and per-source query rewrites. It is always a
// complete record: an advisor failure yields the caller's defaults, never
// a partial decision.
type Decision struct {
	UseDocs    bool    `json:"use_docs"`
	UseWeb     bool    `json:"use_web"`
	UseKiwix   bool    `json:"use_kiwix"`
	DocGroup   *string `json:"doc_group"`
	DocSource  *string `json:"doc_source"`
	DocQuery   *string `json:"doc_query"`
	WebQuery   *string `json:"web_query"`
	KiwixQuery *string `json:"kiwix_query"`
}

// Config tunes the advisor. Zero values select defaults; CacheTTL of zero
// disables decision memoization.
type Config struct {
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Advisor performs best-effort LLM routing.
type Advisor struct {
	llmProvider llm.LLMProvider
	extractor   *llmjson.Extractor
	model       string
	timeout     time.Duration
	cache       *gocache.Cache
	logger      *log.Logger
}

// NewAdvisor creates a routing advisor.
func NewAdvisor(llmProvider llm.LLMProvider, extractor *llmjson.Extractor, cfg Config, logger *log.Logger) *Advisor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var decisionCache *gocache.Cache
	if cfg.CacheTTL > 0 {
		decisionCache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return &Advisor{
		llmProvider: llmProvider,
		extractor:   extractor,
		model:       cfg.Model,
		timeout:     timeout,
		cache:       decisionCache,
		logger:      logger,
	}
}

// Route asks the model which sources to use for the query. On any
// transport error, non-2xx response, extraction failure or non-object
// JSON it returns defaults unchanged. Recognized, type-correct fields are
// merged over the defaults one by one; everything else is ignored.
// Successful decisions may be memoized per normalized query.
func (a *Advisor) Route(ctx context.Context, query string, defaults Decision) Decision {
	q := strings.TrimSpace(query)
	if q == "" {
		return defaults
	}

	if a.cache != nil {
		if cached, found := a.cache.Get(q); found {
			if d, ok := cached.(Decision); ok {
				return d
			}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	opts := []llm.Option{llm.WithTemperature(0.0)}
	if a.model != "" {
		opts = append(opts, llm.WithModel(a.model))
	}

	response, err := a.llmProvider.Generate(callCtx, a.buildPrompt(q), opts...)
	if err != nil {
		a.logger.Printf("[WARN] Route advisor LLM call failed, using defaults: %v", err)
		return defaults
	}

	raw, ok := a.extractor.ExtractObject(response)
	if !ok {
		a.logger.Printf("[WARN] Route advisor returned no parseable JSON, using defaults")
		return defaults
	}

	out := mergeDecision(defaults, raw)

	if a.cache != nil {
		a.cache.Set(q, out, gocache.DefaultExpiration)
	}
	return out
}

func (a *Advisor) buildPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("Return ONLY JSON.\n")
	prompt.WriteString("Schema:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"use_docs\": true|false,\n")
	prompt.WriteString("  \"use_web\": true|false,\n")
	prompt.WriteString("  \"use_kiwix\": true|false,\n")
	prompt.WriteString("  \"doc_group\": string|null,\n")
	prompt.WriteString("  \"doc_source\": string|null,\n")
	prompt.WriteString("  \"doc_query\": string|null,\n")
	prompt.WriteString("  \"web_query\": string|null,\n")
	prompt.WriteString("  \"kiwix_query\": string|null\n")
	prompt.WriteString("}\n\n")
	prompt.WriteString("Guidance:\n")
	prompt.WriteString("- Use docs for user-uploaded files / epubs.\n")
	prompt.WriteString("- Use kiwix for offline encyclopedia-style lookups.\n")
	prompt.WriteString("- Use web only if the answer likely needs current info.\n")
	prompt.WriteString("- doc_group can be 'epub' when the question is about books; otherwise null.\n")
	prompt.WriteString("- If you rewrite queries, keep them short and keyword-focused.\n\n")
	prompt.WriteString("User question:\n")
	prompt.WriteString(query)
	prompt.WriteString("\n")

	return prompt.String()
}

// mergeDecision applies recognized, type-correct fields from the model's
// JSON over the defaults. Booleans override only when the JSON value is an
// actual boolean. String fields accept a string (trimmed, empty becomes
// nil) or an explicit null. Wrong-typed fields never reject the decision.
func mergeDecision(defaults Decision, raw json.RawMessage) Decision {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return defaults
	}

	out := defaults

	boolFields := map[string]*bool{
		"use_docs":  &out.UseDocs,
		"use_web":   &out.UseWeb,
		"use_kiwix": &out.UseKiwix,
	}
	for key, dst := range boolFields {
		rawVal, present := fields[key]
		if !present {
			continue
		}
		var b bool
		if err := json.Unmarshal(rawVal, &b); err == nil {
			*dst = b
		}
	}

	stringFields := map[string]**string{
		"doc_group":   &out.DocGroup,
		"doc_source":  &out.DocSource,
		"doc_query":   &out.DocQuery,
		"web_query":   &out.WebQuery,
		"kiwix_query": &out.KiwixQuery,
	}
	for key, dst := range stringFields {
		rawVal, present := fields[key]
		if !present {
			continue
		}
		if string(rawVal) == "null" {
			*dst = nil
			continue
		}
		var s string
		if err := json.Unmarshal(rawVal, &s); err != nil {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*dst = nil
		} else {
			*dst = &s
		}
	}

	return out
}
