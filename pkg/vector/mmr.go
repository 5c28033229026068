package vector

// Candidate is one scored item in an MMR selection pool.
type Candidate struct {
	ID        int64 // chunk id, used for deterministic tie-breaking
	Relevance float64
	Embedding []float32
	Norm      float64
}

// MMR selects up to k candidates by Maximal Marginal Relevance: each round
// picks the candidate maximizing
//
//	lambda*relevance - (1-lambda)*maxSimToSelected
//
// where maxSimToSelected is the cosine similarity to the most similar
// already-selected candidate (0 while nothing is selected). Lambda is
// clamped to [0,1]; lambda=1 reproduces pure relevance ranking, lambda=0
// favors diversity. Ties break toward the lower candidate ID. Returns the
// indices of the selected candidates in selection order.
func MMR(pool []Candidate, lambda float64, k int) []int {
	if k <= 0 || len(pool) == 0 {
		return nil
	}
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	if k > len(pool) {
		k = len(pool)
	}

	selected := make([]int, 0, k)
	used := make([]bool, len(pool))

	for len(selected) < k {
		best := -1
		var bestScore float64
		for i := range pool {
			if used[i] {
				continue
			}
			maxSim := 0.0
			for _, s := range selected {
				sim := CosineWithNorms(pool[i].Embedding, pool[i].Norm, pool[s].Embedding, pool[s].Norm)
				if sim > maxSim {
					maxSim = sim
				}
			}
			score := lambda*pool[i].Relevance - (1-lambda)*maxSim
			if best == -1 || score > bestScore || (score == bestScore && pool[i].ID < pool[best].ID) {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		selected = append(selected, best)
	}
	return selected
}
