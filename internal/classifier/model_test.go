package classifier_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/campusworks/letterflow/internal/classifier"
)

func testModel() *classifier.Model {
	return &classifier.Model{
		Classes:        []string{"Payment", "Permission"},
		ClassLogPriors: []float64{math.Log(0.5), math.Log(0.5)},
		Vocabulary: map[string]int{
			"amount":     0,
			"payment":    1,
			"permission": 2,
			"event":      3,
		},
		FeatureLogProbs: [][]float64{
			{-0.5, -0.5, -3.0, -3.0},
			{-3.0, -3.0, -0.5, -0.5},
		},
	}
}

func TestPredict(t *testing.T) {
	model := testModel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"payment vocabulary dominates", "Payment of the pending amount is requested", "Payment"},
		{"permission vocabulary dominates", "Permission to organize the event", "Permission"},
		{"out of vocabulary tokens ignored", "amount xyzzy quux", "Payment"},
		{"tie falls to first class", "completely unrelated words", "Payment"},
		{"tokenizer lowercases", "AMOUNT PAYMENT", "Payment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.Predict(tt.text)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Predict(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid model round trips", func(t *testing.T) {
		path := writeModel(t, `{
			"classes": ["Payment", "Permission"],
			"class_log_priors": [-0.69, -0.69],
			"vocabulary": {"amount": 0, "event": 1},
			"feature_log_probs": [[-0.5, -3.0], [-3.0, -0.5]]
		}`)

		m, err := classifier.Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(m.Classes) != 2 {
			t.Errorf("len(Classes) = %d, want 2", len(m.Classes))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := classifier.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
			t.Error("Load() error = nil, want read error")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeModel(t, `{"classes": [`)
		if _, err := classifier.Load(path); err == nil {
			t.Error("Load() error = nil, want parse error")
		}
	})

	t.Run("single class rejected", func(t *testing.T) {
		path := writeModel(t, `{
			"classes": ["Payment"],
			"class_log_priors": [0],
			"vocabulary": {},
			"feature_log_probs": [[]]
		}`)

		_, err := classifier.Load(path)
		if err == nil || !strings.Contains(err.Error(), "at least 2 classes") {
			t.Errorf("Load() error = %v, want class count error", err)
		}
	})

	t.Run("prior length mismatch rejected", func(t *testing.T) {
		path := writeModel(t, `{
			"classes": ["Payment", "Permission"],
			"class_log_priors": [0],
			"vocabulary": {},
			"feature_log_probs": [[], []]
		}`)

		if _, err := classifier.Load(path); err == nil {
			t.Error("Load() error = nil, want validation error")
		}
	})

	t.Run("feature row length mismatch rejected", func(t *testing.T) {
		path := writeModel(t, `{
			"classes": ["Payment", "Permission"],
			"class_log_priors": [0, 0],
			"vocabulary": {"amount": 0},
			"feature_log_probs": [[-0.5], []]
		}`)

		if _, err := classifier.Load(path); err == nil {
			t.Error("Load() error = nil, want validation error")
		}
	})
}

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
