package fs

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeckFile is one deck as written in an import file.
type DeckFile struct {
	ID        string            `yaml:"id"`
	Label     string            `yaml:"label"`
	PlayerTag string            `yaml:"player_tag"`
	Trophies  int               `yaml:"trophies"`
	Cards     []CardRef         `yaml:"cards"`
	Metadata  map[string]string `yaml:"metadata"`
}

// CardRef names a card either by a bare scalar (id or name) or by a mapping
// with id and/or name.
type CardRef struct {
	ID   string
	Name string
	// Ref holds a bare scalar that may be either an id or a name.
	Ref string
}

func (r *CardRef) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		r.Ref = n.Value
		return nil
	case yaml.MappingNode:
		var m struct {
			ID   string `yaml:"id"`
			Name string `yaml:"name"`
		}
		if err := n.Decode(&m); err != nil {
			return err
		}
		if m.ID == "" && m.Name == "" {
			return fmt.Errorf("line %d: card needs an id or a name", n.Line)
		}
		r.ID, r.Name = m.ID, m.Name
		return nil
	default:
		return fmt.Errorf("line %d: card must be a scalar or a mapping", n.Line)
	}
}

// ParseDecks reads a single deck, a list of decks, or a mapping with a
// "decks" list. JSON input is accepted since it is valid YAML.
func ParseDecks(data []byte) ([]DeckFile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty deck file")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse deck file: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty deck file")
	}
	root := doc.Content[0]

	var decks []DeckFile
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&decks); err != nil {
			return nil, fmt.Errorf("failed to decode deck list: %w", err)
		}
	case yaml.MappingNode:
		if hasKey(root, "decks") {
			var wrapper struct {
				Decks []DeckFile `yaml:"decks"`
			}
			if err := root.Decode(&wrapper); err != nil {
				return nil, fmt.Errorf("failed to decode deck list: %w", err)
			}
			decks = wrapper.Decks
		} else {
			var deck DeckFile
			if err := root.Decode(&deck); err != nil {
				return nil, fmt.Errorf("failed to decode deck: %w", err)
			}
			decks = []DeckFile{deck}
		}
	default:
		return nil, fmt.Errorf("line %d: expected a deck or a list of decks", root.Line)
	}

	for i, d := range decks {
		if len(d.Cards) == 0 {
			return nil, fmt.Errorf("deck %d: no cards", i)
		}
	}
	return decks, nil
}

// ReadDecks parses the deck file at path.
func ReadDecks(path string) ([]DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decks, err := ParseDecks(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return decks, nil
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}
