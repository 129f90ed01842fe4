package similarity

import "github.com/narainsingaram/clash-royale-ai/internal/domain"

// DeckVector is a one-hot presence vector over a Vocabulary.
type DeckVector []float64

// Ones returns the number of set slots.
func (dv DeckVector) Ones() int {
	n := 0
	for _, x := range dv {
		if x != 0 {
			n++
		}
	}
	return n
}

// VectorizedDeck pairs a corpus deck with its vector under one Vocabulary.
type VectorizedDeck struct {
	Deck   domain.CorpusDeck
	Vector DeckVector
}

// Vectorize marks the slot of every known card in deck. Repeated cards are
// no-ops and cards missing from the vocabulary are skipped; catalogs can lag
// behind collected decks. Deck size is not checked here.
func Vectorize(deck []domain.Card, v *Vocabulary) DeckVector {
	vec := make(DeckVector, v.Size())
	for _, card := range deck {
		if slot, ok := v.Slot(card.ID); ok {
			vec[slot] = 1
		}
	}
	return vec
}

// VectorizeCorpus vectorizes every deck in order.
func VectorizeCorpus(corpus []domain.CorpusDeck, v *Vocabulary) []VectorizedDeck {
	out := make([]VectorizedDeck, len(corpus))
	for i, deck := range corpus {
		out[i] = VectorizedDeck{
			Deck:   deck,
			Vector: Vectorize(deck.Cards, v),
		}
	}
	return out
}
