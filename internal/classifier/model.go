// Package classifier provides the pre-trained letter type model and the
// text heuristics used to draft letter metadata from OCR output.
package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Model is a multinomial naive Bayes text classifier trained offline and
// serialized to JSON. It is loaded once at process start; a missing or
// unreadable model is a configuration error for the classification agent,
// not a per-letter failure.
type Model struct {
	Classes         []string       `json:"classes"`
	ClassLogPriors  []float64      `json:"class_log_priors"`
	Vocabulary      map[string]int `json:"vocabulary"`
	FeatureLogProbs [][]float64    `json:"feature_log_probs"`
}

// Matches the tokenizer the model was trained with: lower-cased word runs
// of at least two characters.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// Load reads and validates a serialized model from path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	return &m, nil
}

func (m *Model) validate() error {
	if len(m.Classes) < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", len(m.Classes))
	}
	if len(m.ClassLogPriors) != len(m.Classes) {
		return fmt.Errorf("class_log_priors length %d does not match %d classes",
			len(m.ClassLogPriors), len(m.Classes))
	}
	if len(m.FeatureLogProbs) != len(m.Classes) {
		return fmt.Errorf("feature_log_probs length %d does not match %d classes",
			len(m.FeatureLogProbs), len(m.Classes))
	}
	for i, probs := range m.FeatureLogProbs {
		if len(probs) != len(m.Vocabulary) {
			return fmt.Errorf("feature_log_probs[%d] length %d does not match vocabulary size %d",
				i, len(probs), len(m.Vocabulary))
		}
	}
	return nil
}

// Predict returns the class with the highest posterior log-likelihood for
// the given text. Tokens outside the training vocabulary are ignored.
func (m *Model) Predict(text string) (string, error) {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	best := 0
	bestScore := 0.0

	for class := range m.Classes {
		score := m.ClassLogPriors[class]
		for _, token := range tokens {
			idx, ok := m.Vocabulary[token]
			if !ok {
				continue
			}
			score += m.FeatureLogProbs[class][idx]
		}

		if class == 0 || score > bestScore {
			best = class
			bestScore = score
		}
	}

	return m.Classes[best], nil
}
