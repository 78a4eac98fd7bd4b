package search

import (
	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

// popularityCeiling is the fixed watch-count normalization ceiling. Counts
// above it clamp to 1.0 rather than rescaling against the corpus maximum.
const popularityCeiling = 1000

// Weights blends the three scoring terms. The defaults are tuned so the
// components sum to 1, but this is documentation, not enforced.
type Weights struct {
	Similarity float64
	Rating     float64
	Popularity float64
}

// DefaultWeights returns the standard 0.5/0.3/0.2 blend.
func DefaultWeights() Weights {
	return Weights{Similarity: 0.5, Rating: 0.3, Popularity: 0.2}
}

// Breakdown carries the hybrid score and its components, all in [0,1]
// for in-range inputs.
type Breakdown struct {
	Final      float64 `json:"final"`
	Text       float64 `json:"text"`
	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`
}

// HybridScore blends text-match strength, normalized rating, and normalized
// popularity into one scalar. Pure and deterministic for fixed inputs.
// A missing rating or watch count scores as zero rather than erroring.
func HybridScore(m catalogstore.Movie, query string, w Weights) Breakdown {
	text := TextScore(m, query)

	rating := m.Rating / 10
	if rating < 0 {
		rating = 0
	}

	popularity := float64(m.WatchCount) / popularityCeiling
	if popularity > 1 {
		popularity = 1
	}
	if popularity < 0 {
		popularity = 0
	}

	return Breakdown{
		Final:      text*w.Similarity + rating*w.Rating + popularity*w.Popularity,
		Text:       text,
		Rating:     rating,
		Popularity: popularity,
	}
}
