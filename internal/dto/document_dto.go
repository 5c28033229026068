package dto

type SectionInput struct {
	Label string `json:"label"`
	Text  string `json:"text" validate:"required"`
}

type CreateDocumentRequest struct {
	Filename  string                 `json:"filename" validate:"required"`
	Text      string                 `json:"text"`
	Sections  []SectionInput         `json:"sections" validate:"omitempty,dive"`
	Title     *string                `json:"title"`
	Author    *string                `json:"author"`
	Path      *string                `json:"path"`
	GroupName *string                `json:"group"`
	Source    *string                `json:"source"`
	Weight    *float64               `json:"weight" validate:"omitempty,gt=0"`
	Meta      map[string]interface{} `json:"meta"`
}

type CreateDocumentResponse struct {
	Id int64 `json:"id"`
}

type DocumentResponse struct {
	Id         int64                  `json:"id"`
	Filename   string                 `json:"filename"`
	SHA256     string                 `json:"sha256"`
	CreatedAt  int64                  `json:"created_at"`
	EmbedModel string                 `json:"embed_model"`
	EmbedDim   int                    `json:"embed_dim"`
	Weight     float64                `json:"weight"`
	GroupName  *string                `json:"group"`
	Source     *string                `json:"source"`
	Title      *string                `json:"title"`
	Author     *string                `json:"author"`
	Path       *string                `json:"path"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
	ChunkCount int64                  `json:"chunk_count"`
}

type UpdateDocumentRequest struct {
	Id        int64
	Title     *string  `json:"title"`
	Author    *string  `json:"author"`
	GroupName *string  `json:"group"`
	Weight    *float64 `json:"weight" validate:"omitempty,gt=0"`
}

type UpdateDocumentResponse struct {
	Id int64 `json:"id"`
}

type ChunkResponse struct {
	Id         int64   `json:"id"`
	DocId      int64   `json:"doc_id"`
	ChunkIndex int     `json:"chunk_index"`
	Section    *string `json:"section"`
	Text       string  `json:"text"`
	Norm       float64 `json:"norm"`
}

type NeighborsResponse struct {
	ChunkId   int64           `json:"chunk_id"`
	Neighbors []ChunkResponse `json:"neighbors"`
}

// IngestDocumentMessage is the embed-queue payload. Document rows store no
// body text, so the text travels with the message.
type IngestDocumentMessage struct {
	DocId      int64          `json:"doc_id"`
	EmbedModel string         `json:"embed_model"`
	Text       string         `json:"text"`
	Sections   []SectionInput `json:"sections,omitempty"`
}
