package dto

type FetchWebPageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type FetchWebPageResponse struct {
	URL        string  `json:"url"`
	Title      *string `json:"title"`
	Domain     *string `json:"domain"`
	ChunkCount int     `json:"chunk_count"`
}

type WebPageResponse struct {
	URL        string  `json:"url"`
	Title      *string `json:"title"`
	Domain     *string `json:"domain"`
	FetchedAt  int64   `json:"fetched_at"`
	Status     string  `json:"status"`
	ChunkCount int64   `json:"chunk_count"`
}
