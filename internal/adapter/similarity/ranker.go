package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

// CosineSimilarity returns dot(a,b) / (|a|·|b|). A zero-magnitude vector on
// either side scores 0, including the 0/0 case.
func CosineSimilarity(a, b DeckVector) (float64, error) {
	if len(a) != len(b) {
		return 0, &domain.InvalidInputError{
			Reason: "vector dimension mismatch",
			Want:   len(a),
			Got:    len(b),
		}
	}
	return cosine(a, b), nil
}

func cosine(a, b DeckVector) float64 {
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	// sqrt of the product keeps one-hot self-similarity at exactly 1.
	return dotProduct / math.Sqrt(normA*normB)
}

// RankBySimilarity scores every corpus deck against query and returns the
// topN best, highest first. Equal scores keep corpus order. topN <= 0 returns
// every deck. Any vector whose length differs from the query fails the whole
// call.
func RankBySimilarity(query DeckVector, corpus []VectorizedDeck, topN int) ([]domain.SimilarityResult, error) {
	for i, entry := range corpus {
		if len(entry.Vector) != len(query) {
			return nil, &domain.InvalidInputError{
				Record: recordName(i, entry.Deck),
				Reason: "vector dimension mismatch",
				Want:   len(query),
				Got:    len(entry.Vector),
			}
		}
	}

	results := make([]domain.SimilarityResult, len(corpus))
	for i, entry := range corpus {
		results[i] = domain.SimilarityResult{
			Deck:  entry.Deck,
			Score: cosine(query, entry.Vector),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topN > 0 && topN < len(results) {
		results = results[:topN]
	}

	return results, nil
}

func recordName(i int, deck domain.CorpusDeck) string {
	switch {
	case deck.ID != "":
		return deck.ID
	case deck.Label != "":
		return deck.Label
	default:
		return fmt.Sprintf("corpus[%d]", i)
	}
}
