package similarity

import (
	"fmt"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

// Vocabulary maps card ids to dense vector slots in [0, Size()).
// It is read-only once built; build a new one when the catalog changes.
type Vocabulary struct {
	slots map[string]int
	ids   []string
}

// BuildVocabulary assigns slots in catalog order. When an id repeats, the
// first occurrence keeps its slot and later ones are ignored.
func BuildVocabulary(catalog []domain.Card) (*Vocabulary, error) {
	v := &Vocabulary{
		slots: make(map[string]int, len(catalog)),
		ids:   make([]string, 0, len(catalog)),
	}

	for i, card := range catalog {
		if card.ID == "" {
			return nil, &domain.InvalidInputError{
				Record: fmt.Sprintf("catalog[%d]", i),
				Reason: "card has no id",
			}
		}
		if _, exists := v.slots[card.ID]; exists {
			continue
		}
		v.slots[card.ID] = len(v.ids)
		v.ids = append(v.ids, card.ID)
	}

	return v, nil
}

// Size returns the vector dimensionality.
func (v *Vocabulary) Size() int {
	if v == nil {
		return 0
	}
	return len(v.ids)
}

// Slot returns the slot assigned to id.
func (v *Vocabulary) Slot(id string) (int, bool) {
	if v == nil {
		return 0, false
	}
	slot, ok := v.slots[id]
	return slot, ok
}

// IDs returns the ids in slot order.
func (v *Vocabulary) IDs() []string {
	if v == nil {
		return nil
	}
	ids := make([]string, len(v.ids))
	copy(ids, v.ids)
	return ids
}
