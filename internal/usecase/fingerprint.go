package usecase

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

// corpusKey identifies a catalog and corpus pair by content, so cached
// results derived from them are dropped as soon as either changes.
func corpusKey(catalog []domain.Card, corpus []domain.CorpusDeck) string {
	h := sha256.New()
	for _, c := range catalog {
		h.Write([]byte(c.ID))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, d := range corpus {
		h.Write([]byte(d.ID))
		h.Write([]byte{0})
		for _, c := range d.Cards {
			h.Write([]byte(c.ID))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
