package classifier_test

import (
	"testing"

	"github.com/campusworks/letterflow/internal/classifier"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int64
	}{
		{"amount label with colon", "Amount: 10,000", 10000},
		{"rs label with period", "Total payable Rs. 1200 only", 1200},
		{"rs label without period", "rs 2,50,000", 250000},
		{"inr label", "INR 5000 sanctioned", 5000},
		{"lowercase label", "amount 750", 750},
		{"unlabeled number ignored", "there are 500 students attending", 0},
		{"no number", "kindly process the payment", 0},
		{"empty text", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.ExtractAmount(tt.text); got != tt.want {
				t.Errorf("ExtractAmount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
