package model

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// tokenPattern keeps words of two or more characters, matching the
// tokenization the vectorizer was trained with.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Vectorizer is a TF-IDF transform with a fixed vocabulary. Vocabulary maps
// a lowercase term to its column, IDF holds the per-column inverse document
// frequency weights.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

func (v *Vectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("empty vocabulary")
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("term %q maps to column %d outside idf table of %d", term, idx, len(v.IDF))
		}
	}
	return nil
}

// Transform converts text into an L2-normalized TF-IDF vector over the
// vectorizer's vocabulary. Unknown terms are ignored; all-unknown text
// yields the zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.IDF))
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if idx, ok := v.Vocabulary[tok]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i := range vec {
		if vec[i] > 0 {
			vec[i] *= v.IDF[i]
			norm += vec[i] * vec[i]
		}
	}
	if norm > 0 {
		inv := 1.0 / math.Sqrt(norm)
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}
