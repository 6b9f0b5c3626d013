// Package keywords extracts contextual keyword tokens from free text for ATS keyword scoring.
package keywords

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// minTokenLength drops single-letter residue left by tokenization.
const minTokenLength = 2

// Tagger turns text into a set of normalized keyword tokens using bleve's
// English analyzer (unicode tokenizer, possessive filter, lowercasing,
// English stop words and Porter stemming). It is safe for concurrent use.
type Tagger struct {
	mapping      *mapping.IndexMappingImpl
	analyzerName string
}

// NewTagger creates a Tagger backed by the English analyzer.
func NewTagger() (*Tagger, error) {
	m := bleve.NewIndexMapping()
	if _, err := m.AnalyzeText(en.AnalyzerName, []byte("warm up")); err != nil {
		return nil, fmt.Errorf("failed to load %s analyzer: %w", en.AnalyzerName, err)
	}
	return &Tagger{mapping: m, analyzerName: en.AnalyzerName}, nil
}

// Keywords returns the distinct keyword tokens in text. Numeric tokens and
// tokens shorter than two characters are discarded. Analyzer failures yield
// an empty set.
func (t *Tagger) Keywords(text string) map[string]struct{} {
	result := make(map[string]struct{})
	if strings.TrimSpace(text) == "" {
		return result
	}

	tokens, err := t.mapping.AnalyzeText(t.analyzerName, []byte(text))
	if err != nil {
		return result
	}

	for _, token := range tokens {
		term := string(token.Term)
		if len([]rune(term)) < minTokenLength || isNumeric(term) {
			continue
		}
		result[term] = struct{}{}
	}
	return result
}

func isNumeric(term string) bool {
	for _, r := range term {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}
