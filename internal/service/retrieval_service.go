// FILE: internal/service/retrieval_service.go
package service

import (
	"context"

	"cognihub-be/internal/dto"
	"cognihub-be/pkg/rag/retrieval"
	"cognihub-be/pkg/rag/routing"
)

type IRetrievalService interface {
	Retrieve(ctx context.Context, req *dto.RetrieveRequest) (*dto.RetrieveResponse, error)
}

type retrievalService struct {
	orchestrator *retrieval.Orchestrator
	defaultTopK  int
	maxTopK      int
	mmrLambda    float64
	kiwixPages   int
}

func NewRetrievalService(orchestrator *retrieval.Orchestrator, defaultTopK, maxTopK int, mmrLambda float64, kiwixPages int) IRetrievalService {
	if defaultTopK <= 0 {
		defaultTopK = 8
	}
	if maxTopK <= 0 || maxTopK > retrieval.TopKMax {
		maxTopK = retrieval.TopKMax
	}
	if mmrLambda <= 0 || mmrLambda > 1 {
		mmrLambda = retrieval.DefaultMMRLambda
	}
	if kiwixPages <= 0 {
		kiwixPages = retrieval.DefaultKiwixPages
	}
	return &retrievalService{
		orchestrator: orchestrator,
		defaultTopK:  defaultTopK,
		maxTopK:      maxTopK,
		mmrLambda:    mmrLambda,
		kiwixPages:   kiwixPages,
	}
}

func (c *retrievalService) Retrieve(ctx context.Context, req *dto.RetrieveRequest) (*dto.RetrieveResponse, error) {
	output, err := c.orchestrator.Search(ctx, c.toSearchRequest(req))
	if err != nil {
		return nil, err
	}

	res := dto.RetrieveResponse{
		Results:  make([]dto.RetrievalResultResponse, len(output.Results)),
		Decision: decisionToResponse(output.Decision),
	}
	for i, r := range output.Results {
		res.Results[i] = dto.RetrievalResultResponse{
			Source:  string(r.SourceType),
			RefID:   r.RefID,
			ChunkID: r.ChunkID,
			Title:   r.Title,
			URL:     r.URL,
			Domain:  r.Domain,
			Score:   r.Score,
			Text:    r.Text,
			Meta:    r.Meta,
		}
	}
	return &res, nil
}

func (c *retrievalService) toSearchRequest(req *dto.RetrieveRequest) retrieval.SearchRequest {
	topK := req.TopK
	if topK <= 0 {
		topK = c.defaultTopK
	}
	if topK > c.maxTopK {
		topK = c.maxTopK
	}

	// Source defaults: docs on unless disabled, web and kiwix opt-in.
	defaults := routing.Decision{
		UseDocs:   req.UseDocs == nil || *req.UseDocs,
		UseWeb:    req.UseWeb != nil && *req.UseWeb,
		UseKiwix:  req.UseKiwix != nil && *req.UseKiwix,
		DocGroup:  req.Group,
		DocSource: req.Source,
	}

	opts := retrieval.Options{
		DocIDs:          req.DocIDs,
		GroupName:       req.Group,
		Source:          req.Source,
		MMRLambda:       req.MMRLambda,
		DomainWhitelist: req.Domains,
		Pages:           c.kiwixPages,
	}
	if opts.MMRLambda == nil {
		lambda := c.mmrLambda
		opts.MMRLambda = &lambda
	}
	if req.UseMMR != nil {
		opts.UseMMR = *req.UseMMR
	}
	if req.Kiwix != nil {
		if req.Kiwix.Pages > 0 {
			opts.Pages = req.Kiwix.Pages
		}
		opts.Persist = req.Kiwix.Persist
	}

	return retrieval.SearchRequest{
		Query:       req.Query,
		TopK:        topK,
		Defaults:    defaults,
		UseRouting:  req.Route,
		UseReranker: req.Rerank,
		RerankKeepN: req.RerankKeepN,
		Options:     opts,
		Pinned:      req.Pinned,
		Excluded:    req.Excluded,
	}
}

func decisionToResponse(d routing.Decision) *dto.RouteDecisionResponse {
	return &dto.RouteDecisionResponse{
		UseDocs:    d.UseDocs,
		UseWeb:     d.UseWeb,
		UseKiwix:   d.UseKiwix,
		DocGroup:   d.DocGroup,
		DocSource:  d.DocSource,
		DocQuery:   d.DocQuery,
		WebQuery:   d.WebQuery,
		KiwixQuery: d.KiwixQuery,
	}
}
