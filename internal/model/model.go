// Package model loads the serialized inference artifacts: the market safety
// model with its feature-order metadata, and the news sentiment vectorizer
// and classifier. Artifacts are read once at process start and never mutated;
// a missing or malformed artifact is a fatal configuration error.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"stocksafe/internal/interfaces"
)

// Artifact file names inside the models directory.
const (
	marketModelFile    = "safety_model.json"
	metadataFile       = "safety_model_metadata.json"
	vectorizerFile     = "news_vectorizer.json"
	sentimentModelFile = "news_sentiment_model.json"
)

// Metadata describes the feature contract the market model was trained on:
// the exact column order it expects and the training medians used for
// imputation.
type Metadata struct {
	Features []string           `json:"features"`
	Medians  map[string]float64 `json:"medians,omitempty"`
}

// LinearModel is a linear predictor over an ordered feature vector. The
// market safety regressor is stored this way; its output is approximately
// [0,1] by training convention, not clamped here.
type LinearModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

var _ interfaces.MarketModel = (*LinearModel)(nil)

func (m *LinearModel) Predict(features []float64) float64 {
	score := m.Intercept
	for i, c := range m.Coefficients {
		if i < len(features) {
			score += c * features[i]
		}
	}
	return score
}

// LogisticModel is a binary logistic classifier; PredictProba returns the
// positive-class probability.
type LogisticModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (m *LogisticModel) PredictProba(features []float64) float64 {
	z := m.Intercept
	for i, c := range m.Coefficients {
		if i < len(features) {
			z += c * features[i]
		}
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// Registry is the process-wide, read-only model state.
type Registry struct {
	Market     *LinearModel
	Meta       Metadata
	Vectorizer *Vectorizer
	Sentiment  *LogisticModel
}

// Load reads every artifact from dir and validates the metadata feature
// order against the columns the feature pipeline can produce. knownColumn
// reports whether a named column is producible; a metadata column it does
// not recognize aborts the load.
func Load(dir string, knownColumn func(string) bool) (*Registry, error) {
	r := &Registry{}

	if err := readJSON(filepath.Join(dir, marketModelFile), &r.Market); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, metadataFile), &r.Meta); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, vectorizerFile), &r.Vectorizer); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, sentimentModelFile), &r.Sentiment); err != nil {
		return nil, err
	}

	if len(r.Meta.Features) == 0 {
		return nil, fmt.Errorf("model metadata declares no features")
	}
	if len(r.Market.Coefficients) != len(r.Meta.Features) {
		return nil, fmt.Errorf("market model has %d coefficients for %d metadata features",
			len(r.Market.Coefficients), len(r.Meta.Features))
	}
	for _, name := range r.Meta.Features {
		if !knownColumn(name) {
			return nil, fmt.Errorf("model metadata names unknown feature column %q", name)
		}
	}
	if err := r.Vectorizer.validate(); err != nil {
		return nil, fmt.Errorf("news vectorizer: %w", err)
	}
	if len(r.Sentiment.Coefficients) != len(r.Vectorizer.IDF) {
		return nil, fmt.Errorf("sentiment model has %d coefficients for %d vectorizer terms",
			len(r.Sentiment.Coefficients), len(r.Vectorizer.IDF))
	}

	return r, nil
}

// Impute replaces NaN entries of an ordered feature vector with the
// training median for that feature, falling back to 0 when the metadata
// carries no median. The model never sees a NaN.
func (r *Registry) Impute(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, v := range features {
		if !math.IsNaN(v) {
			out[i] = v
			continue
		}
		if i < len(r.Meta.Features) {
			if m, ok := r.Meta.Medians[r.Meta.Features[i]]; ok {
				out[i] = m
				continue
			}
		}
		out[i] = 0
	}
	return out
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model artifact: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("malformed model artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}
