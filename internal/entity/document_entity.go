package entity

type Document struct {
	Id         int64
	Filename   string
	SHA256     string
	CreatedAt  int64
	EmbedModel string
	EmbedDim   int
	Weight     float64
	GroupName  *string
	Source     *string
	Title      *string
	Author     *string
	Path       *string
	Meta       map[string]interface{}

	// ChunkCount is hydrated on listing; it is not a stored column.
	ChunkCount int64
}

type Chunk struct {
	Id         int64
	DocId      int64
	ChunkIndex int
	Section    *string
	Text       string
	Embedding  []float32
	Norm       float64
	ChunkSHA   string
}
