// Package persona holds the precomputed style profile of the person the bot
// imitates and turns it into the instruction payload for the generator. A
// profile is produced offline by `doppel ingest`, loaded once at startup,
// and immutable afterwards.
package persona

import (
	"encoding/json"
	"fmt"
	"os"
)

// Style holds corpus-derived writing statistics.
type Style struct {
	AvgLength        float64  `json:"avg_length"`        // mean message length in runes
	EmojiPerMessage  float64  `json:"emoji_per_message"` // emoji runes per message
	LowercaseRatio   float64  `json:"lowercase_ratio"`   // share of messages with no uppercase
	PunctuationRatio float64  `json:"punctuation_ratio"` // share of messages ending in . ! ?
	CommonPhrases    []string `json:"common_phrases,omitempty"`
}

// Profile is the persisted persona description.
type Profile struct {
	Name    string   `json:"name"`
	Samples []string `json:"samples"`
	Style   Style    `json:"style"`
}

// Load reads a profile JSON file and checks the invariants the runtime
// depends on: a display name and a non-empty example corpus.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse persona profile: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("persona profile %s: missing display name", path)
	}
	if len(p.Samples) == 0 {
		return nil, fmt.Errorf("persona profile %s: no example messages", path)
	}
	return &p, nil
}

// Save writes the profile as indented JSON, the format Load expects.
func (p *Profile) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode persona profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write persona profile: %w", err)
	}
	return nil
}
