// Package extract finds numbers in free text and resolves each to a value
// with an exact byte span.
//
// Extraction runs in three passes over a working copy of the text whose
// claimed bytes are overwritten with a placeholder, so offsets never move
// and no span is found twice:
//
//   - First pass: prioritized literal patterns (metric suffixes, glyphs,
//     radix literals, ordinal numerals, "5 million", "3 dozens").
//   - Middle pass: the remainder is normalized and tokenized, a classifier
//     groups the words into number phrases, and each phrase is located
//     back in the text.
//   - Last pass: plain integers and floats left over.
//
// Each candidate is converted with numtext.Parse, classified, and handed to
// the Merger. The API layers are:
//
//   - ParseNumbers: one-shot extraction with a Config.
//   - Engine: reusable extractor bound to a lexicon.
//   - Recognizer: an entity.Recognizer labeling numbers for entity.Pipeline.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - Phrases whose words change under Unicode normalization may not be
//     located in the original text and are dropped.
//   - The classifier knows English number grammar only through the lexicon
//     categories; year readings ("nineteen eighty four") split in two.
package extract

import (
	"fmt"

	"github.com/az-ai-labs/numscan/entity"
	"github.com/az-ai-labs/numscan/lexicon"
)

// maxInputBytes is the maximum input size for extraction.
const maxInputBytes = 1 << 20 // 1 MiB

// EntityNumber labels number tokens produced by Recognizer.
const EntityNumber = "number"

// ParseNumbers returns the numbers in text under cfg. The error reports an
// invalid configuration only. Callers extracting from many texts should
// build an Engine once instead.
func ParseNumbers(text string, cfg lexicon.Config) ([]Annotation, error) {
	lex, err := lexicon.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return New(lex).Parse(text), nil
}

// Recognizer adapts an Engine to entity.Recognizer.
type Recognizer struct {
	engine *Engine
}

var _ entity.Recognizer = (*Recognizer)(nil)

// NewRecognizer returns a recognizer backed by e. A nil e uses a default
// engine.
func NewRecognizer(e *Engine) *Recognizer {
	if e == nil {
		e = New(nil)
	}
	return &Recognizer{engine: e}
}

// Parse returns one token labeled EntityNumber per number in text.
func (r *Recognizer) Parse(text string) []entity.Token {
	anns := r.engine.Parse(text)
	if len(anns) == 0 {
		return nil
	}
	out := make([]entity.Token, len(anns))
	for i, a := range anns {
		out[i] = entity.Token{Text: a.Text, Entity: EntityNumber, Start: a.Start, End: a.End}
	}
	return out
}
