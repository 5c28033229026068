package retrieval

import "context"

const (
	// TopKMax caps how many results a single retrieve call may return.
	TopKMax = 200

	// DefaultMMRLambda balances relevance against diversity when a caller
	// requests MMR without a lambda.
	DefaultMMRLambda = 0.75

	// DefaultKiwixPages is how many candidate pages the kiwix provider
	// fetches when the caller does not say.
	DefaultKiwixPages = 4
)

// Options carries the per-call knobs shared by all providers. Providers
// read only the fields that concern them.
type Options struct {
	// EmbedModel overrides the default embedding model for this call.
	EmbedModel string

	// Doc store scoping. Empty values mean "search everything".
	DocIDs    []int64
	GroupName *string
	Source    *string

	// Diversification. A nil lambda means DefaultMMRLambda; zero is a
	// valid, maximally-diverse setting.
	UseMMR    bool
	MMRLambda *float64

	// Web store scoping.
	DomainWhitelist []string

	// Kiwix fetch behavior.
	Pages   int
	Persist bool
}

// Provider is the common retrieval capability. Implementations must never
// fail on a missing or empty query (return an empty list instead) and must
// clamp topK to [1, TopKMax].
type Provider interface {
	Name() string
	Retrieve(ctx context.Context, query string, topK int, opts Options) ([]Result, error)
}

// ClampTopK bounds a requested result count to [1, TopKMax].
func ClampTopK(topK int) int {
	if topK < 1 {
		return 1
	}
	if topK > TopKMax {
		return TopKMax
	}
	return topK
}

func clampPages(pages int) int {
	if pages <= 0 {
		pages = DefaultKiwixPages
	}
	if pages < 1 {
		return 1
	}
	if pages > 10 {
		return 10
	}
	return pages
}
