package entity

type WebPage struct {
	URL       string
	Title     *string
	Domain    *string
	Content   string
	FetchedAt int64
	Status    string

	// ChunkCount is hydrated on listing; it is not a stored column.
	ChunkCount int64
}

type WebChunk struct {
	Id         int64
	URL        string
	ChunkIndex int
	Text       string
	Embedding  []float32
	Norm       float64
}
