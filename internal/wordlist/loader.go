// Package wordlist loads word-list JSON files into WordEntry values. The
// loader only parses and maps; validation and indexing happen in the
// catalog.
package wordlist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/vocabot/pkg/models"
)

type rawWord struct {
	EN     string            `json:"en"`
	JA     string            `json:"ja"`
	Level  int               `json:"level"`
	Series string            `json:"series"`
	Forms  *models.VerbForms `json:"forms"`
}

type rawLevel struct {
	Level int       `json:"level"`
	Words []rawWord `json:"words"`
}

type legacyFile struct {
	Levels []rawLevel `json:"levels"`
}

// Load reads a words.json file. Both the flat shape
// `[{en, ja, level, series, forms?}, ...]` and the legacy shape
// `{"levels": [{"level": n, "words": [...]}]}` are accepted.
func Load(path string) ([]models.WordEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %v", err)
	}
	return Parse(data)
}

// Parse decodes word-list JSON from memory.
func Parse(data []byte) ([]models.WordEntry, error) {
	var flat []rawWord
	if err := json.Unmarshal(data, &flat); err == nil {
		return mapWords(flat, 0), nil
	}

	var legacy legacyFile
	if err := json.Unmarshal(data, &legacy); err == nil && legacy.Levels != nil {
		var words []models.WordEntry
		for _, lv := range legacy.Levels {
			words = append(words, mapWords(lv.Words, lv.Level)...)
		}
		return words, nil
	}

	return nil, fmt.Errorf("word list is neither a flat array nor a levels object")
}

// mapWords converts raw records, letting a word's own level win over the
// enclosing level group.
func mapWords(raw []rawWord, groupLevel int) []models.WordEntry {
	words := make([]models.WordEntry, 0, len(raw))
	for _, w := range raw {
		level := w.Level
		if level == 0 {
			level = groupLevel
		}
		if level == 0 {
			level = 1
		}
		words = append(words, models.WordEntry{
			EN:     w.EN,
			JA:     w.JA,
			Level:  level,
			Series: w.Series,
			Forms:  w.Forms,
		})
	}
	return words
}
