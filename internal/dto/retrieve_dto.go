package dto

type KiwixOptions struct {
	Pages   int  `json:"pages" validate:"omitempty,min=1,max=20"`
	Persist bool `json:"persist"`
}

type RetrieveRequest struct {
	Query     string   `json:"query" validate:"required"`
	TopK      int      `json:"top_k" validate:"omitempty,min=1"`
	UseMMR    *bool    `json:"use_mmr"`
	MMRLambda *float64 `json:"mmr_lambda" validate:"omitempty,min=0,max=1"`

	// Source toggles; the route advisor may override them when routing
	// is enabled. Defaults: docs on, web and kiwix off.
	UseDocs  *bool `json:"use_docs"`
	UseWeb   *bool `json:"use_web"`
	UseKiwix *bool `json:"use_kiwix"`

	Group   *string       `json:"group"`
	Source  *string       `json:"source"`
	DocIDs  []int64       `json:"doc_ids"`
	Domains []string      `json:"domains"`
	Kiwix   *KiwixOptions `json:"kiwix"`

	Route       bool     `json:"route"`
	Rerank      bool     `json:"rerank"`
	RerankKeepN int      `json:"rerank_keep_n" validate:"omitempty,min=1"`
	Pinned      []string `json:"pinned"`
	Excluded    []string `json:"excluded"`
}

type RetrievalResultResponse struct {
	Source  string                 `json:"source"`
	RefID   string                 `json:"ref_id"`
	ChunkID int64                  `json:"chunk_id"`
	Title   *string                `json:"title"`
	URL     *string                `json:"url"`
	Domain  *string                `json:"domain"`
	Score   float64                `json:"score"`
	Text    string                 `json:"text"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

type RouteDecisionResponse struct {
	UseDocs    bool    `json:"use_docs"`
	UseWeb     bool    `json:"use_web"`
	UseKiwix   bool    `json:"use_kiwix"`
	DocGroup   *string `json:"doc_group"`
	DocSource  *string `json:"doc_source"`
	DocQuery   *string `json:"doc_query"`
	WebQuery   *string `json:"web_query"`
	KiwixQuery *string `json:"kiwix_query"`
}

type RetrieveResponse struct {
	Results  []RetrievalResultResponse `json:"results"`
	Decision *RouteDecisionResponse    `json:"decision,omitempty"`
}
