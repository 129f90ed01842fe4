package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

var (
	bucketCards   = []byte("cards")
	bucketDecks   = []byte("decks")
	bucketDeckIDs = []byte("deck_ids")
	bucketMeta    = []byte("meta")
	keyCollected  = []byte("collected_at")
)

// BoltStore keeps the catalog and corpus in a bbolt file. Keys in the cards
// and decks buckets are big-endian sequence numbers so iteration follows
// insertion order.
type BoltStore struct {
	db *bbolt.DB
}

var _ port.DeckStore = (*BoltStore)(nil)

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketCards, bucketDecks, bucketDeckIDs, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// resetBucket drops and recreates a bucket inside tx.
func resetBucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	if tx.Bucket(name) != nil {
		if err := tx.DeleteBucket(name); err != nil {
			return nil, err
		}
	}
	return tx.CreateBucket(name)
}

func (s *BoltStore) PutCatalog(cards []domain.Card) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := resetBucket(tx, bucketCards)
		if err != nil {
			return err
		}
		for i, card := range cards {
			data, err := json.Marshal(card)
			if err != nil {
				return err
			}
			if err := b.Put(itob(uint64(i)), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Catalog() ([]domain.Card, error) {
	var cards []domain.Card
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCards).ForEach(func(k, v []byte) error {
			var card domain.Card
			if err := json.Unmarshal(v, &card); err != nil {
				return fmt.Errorf("corrupt card entry: %w", err)
			}
			cards = append(cards, card)
			return nil
		})
	})
	return cards, err
}

func (s *BoltStore) ReplaceCorpus(decks []domain.CorpusDeck, collectedAt time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := resetBucket(tx, bucketDecks); err != nil {
			return err
		}
		if _, err := resetBucket(tx, bucketDeckIDs); err != nil {
			return err
		}
		if err := putDecks(tx, decks); err != nil {
			return err
		}
		stamp, err := collectedAt.UTC().MarshalText()
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyCollected, stamp)
	})
}

func (s *BoltStore) AppendDecks(decks []domain.CorpusDeck) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return putDecks(tx, decks)
	})
}

func putDecks(tx *bbolt.Tx, decks []domain.CorpusDeck) error {
	deckBucket := tx.Bucket(bucketDecks)
	idBucket := tx.Bucket(bucketDeckIDs)

	for _, deck := range decks {
		if deck.ID == "" {
			return fmt.Errorf("deck %q has no id", deck.Label)
		}
		data, err := json.Marshal(deck)
		if err != nil {
			return err
		}

		key := idBucket.Get([]byte(deck.ID))
		if key == nil {
			seq, err := deckBucket.NextSequence()
			if err != nil {
				return err
			}
			key = itob(seq)
			if err := idBucket.Put([]byte(deck.ID), key); err != nil {
				return err
			}
		}
		if err := deckBucket.Put(key, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *BoltStore) Corpus() ([]domain.CorpusDeck, error) {
	var decks []domain.CorpusDeck
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDecks).ForEach(func(k, v []byte) error {
			var deck domain.CorpusDeck
			if err := json.Unmarshal(v, &deck); err != nil {
				return fmt.Errorf("corrupt deck entry: %w", err)
			}
			decks = append(decks, deck)
			return nil
		})
	})
	return decks, err
}

func (s *BoltStore) CollectedAt() (time.Time, error) {
	var at time.Time
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyCollected)
		if data == nil {
			return nil
		}
		return at.UnmarshalText(data)
	})
	return at, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
