package similarity

import "github.com/narainsingaram/clash-royale-ai/internal/domain"

// CorpusIndex is a vocabulary plus a pre-vectorized corpus. It never changes
// after NewCorpusIndex returns, so one index can serve concurrent Rank calls.
type CorpusIndex struct {
	vocab *Vocabulary
	decks []VectorizedDeck
}

func NewCorpusIndex(catalog []domain.Card, corpus []domain.CorpusDeck) (*CorpusIndex, error) {
	vocab, err := BuildVocabulary(catalog)
	if err != nil {
		return nil, err
	}
	return &CorpusIndex{
		vocab: vocab,
		decks: VectorizeCorpus(corpus, vocab),
	}, nil
}

// Rank vectorizes deck with the index vocabulary and ranks the corpus.
func (x *CorpusIndex) Rank(deck []domain.Card, topN int) ([]domain.SimilarityResult, error) {
	return RankBySimilarity(Vectorize(deck, x.vocab), x.decks, topN)
}

func (x *CorpusIndex) Vocabulary() *Vocabulary {
	return x.vocab
}

// Len returns the number of corpus decks.
func (x *CorpusIndex) Len() int {
	return len(x.decks)
}
