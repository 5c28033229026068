package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// Embed returns exactly one vector per input text, in input order. An empty
// model name selects the provider's default. Callers treat a failure as
// "no results for this query", never as a fatal condition.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string, model string) ([][]float32, error)
}
