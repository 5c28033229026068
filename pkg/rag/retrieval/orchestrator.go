package retrieval

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"cognihub-be/pkg/rag/routing"
)

// RouteAdvisor decides which sources to query and how to phrase each
// source's sub-query. Implementations never fail: on any internal trouble
// they return the supplied defaults.
type RouteAdvisor interface {
	Route(ctx context.Context, query string, defaults routing.Decision) routing.Decision
}

// Reranker reorders a candidate list, always returning the same multiset.
type Reranker interface {
	Rerank(ctx context.Context, query string, results []Result, keepN int) []Result
}

// SearchRequest drives one orchestrated retrieval. Source selection and
// doc group/source scoping travel in Defaults (the route advisor may
// override them); Options carries everything else (doc ids, MMR, domain
// whitelist, kiwix paging, embed model).
type SearchRequest struct {
	Query       string
	TopK        int
	Defaults    routing.Decision
	UseRouting  bool
	UseReranker bool
	RerankKeepN int // 0 means "all merged results"
	Options     Options
	Pinned      []string
	Excluded    []string
}

// SearchOutput is the merged evidence set plus the decision that produced
// it, so callers can show which sources were consulted.
type SearchOutput struct {
	Results  []Result         `json:"results"`
	Decision routing.Decision `json:"decision"`
}

// Orchestrator fans a query out to the selected providers, merges their
// results and optionally reranks the merged list. Scores stay in their
// per-source scales; the merge deduplicates by ref id but deliberately
// applies no cross-source normalization.
type Orchestrator struct {
	doc      Provider
	web      Provider
	kiwix    Provider
	advisor  RouteAdvisor
	reranker Reranker
	logger   *log.Logger
}

// NewOrchestrator wires the retrieval pipeline. Any provider may be nil
// (that source is simply never consulted); advisor and reranker may be nil
// to disable routing and reranking.
func NewOrchestrator(doc, web, kiwix Provider, advisor RouteAdvisor, reranker Reranker, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		doc:      doc,
		web:      web,
		kiwix:    kiwix,
		advisor:  advisor,
		reranker: reranker,
		logger:   logger,
	}
}

// Search runs the full pipeline: route, fan out, merge, rerank, cut.
// A provider failure degrades to an empty contribution from that source
// and is logged; it never fails the request. The orchestrator waits for
// all selected providers before merging.
func (o *Orchestrator) Search(ctx context.Context, req SearchRequest) (*SearchOutput, error) {
	decision := req.Defaults
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return &SearchOutput{Decision: decision}, nil
	}
	topK := ClampTopK(req.TopK)

	if req.UseRouting && o.advisor != nil {
		decision = o.advisor.Route(ctx, q, req.Defaults)
	}

	docOpts := req.Options
	docOpts.GroupName = decision.DocGroup
	docOpts.Source = decision.DocSource

	var docResults, webResults, kiwixResults []Result
	g, gctx := errgroup.WithContext(ctx)

	if decision.UseDocs && o.doc != nil {
		g.Go(func() error {
			res, err := o.doc.Retrieve(gctx, queryFor(q, decision.DocQuery), topK, docOpts)
			if err != nil {
				o.logger.Printf("[WARN] doc provider failed: %v", err)
				return nil
			}
			docResults = res
			return nil
		})
	}
	if decision.UseWeb && o.web != nil {
		g.Go(func() error {
			res, err := o.web.Retrieve(gctx, queryFor(q, decision.WebQuery), topK, req.Options)
			if err != nil {
				o.logger.Printf("[WARN] web provider failed: %v", err)
				return nil
			}
			webResults = res
			return nil
		})
	}
	if decision.UseKiwix && o.kiwix != nil {
		g.Go(func() error {
			res, err := o.kiwix.Retrieve(gctx, queryFor(q, decision.KiwixQuery), topK, req.Options)
			if err != nil {
				o.logger.Printf("[WARN] kiwix provider failed: %v", err)
				return nil
			}
			kiwixResults = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]Result, 0, len(docResults)+len(webResults)+len(kiwixResults))
	merged = append(merged, docResults...)
	merged = append(merged, webResults...)
	merged = append(merged, kiwixResults...)

	merged = dedupeByRefID(merged)
	merged = applyPins(merged, req.Pinned, req.Excluded)

	if req.UseReranker && o.reranker != nil && len(merged) > 1 {
		keepN := req.RerankKeepN
		if keepN <= 0 {
			keepN = len(merged)
		}
		merged = o.reranker.Rerank(ctx, q, merged, keepN)
	}

	if len(merged) > topK {
		merged = merged[:topK]
	}
	return &SearchOutput{Results: merged, Decision: decision}, nil
}

func queryFor(base string, override *string) string {
	if override != nil {
		if s := strings.TrimSpace(*override); s != "" {
			return s
		}
	}
	return base
}

// dedupeByRefID keeps one entry per ref id, preserving first-seen order
// and keeping the higher score when a ref id appears twice.
func dedupeByRefID(results []Result) []Result {
	if len(results) < 2 {
		return results
	}
	out := make([]Result, 0, len(results))
	pos := make(map[string]int, len(results))
	for _, r := range results {
		if i, seen := pos[r.RefID]; seen {
			if r.Score > out[i].Score {
				out[i] = r
			}
			continue
		}
		pos[r.RefID] = len(out)
		out = append(out, r)
	}
	return out
}

// applyPins drops excluded ref ids and moves pinned ones to the front,
// each side keeping its original relative order.
func applyPins(results []Result, pinned, excluded []string) []Result {
	if len(pinned) == 0 && len(excluded) == 0 {
		return results
	}
	pinSet := make(map[string]bool, len(pinned))
	for _, id := range pinned {
		pinSet[id] = true
	}
	exclSet := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		exclSet[id] = true
	}

	front := make([]Result, 0, len(pinned))
	rest := make([]Result, 0, len(results))
	for _, r := range results {
		if exclSet[r.RefID] {
			continue
		}
		if pinSet[r.RefID] {
			front = append(front, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(front, rest...)
}
