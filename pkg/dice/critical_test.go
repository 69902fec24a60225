package dice

import (
	"testing"
)

func TestCriticalDamageFormula(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single die", "1d8", "2d8"},
		{"dice with modifier", "2d6+3", "4d6+3"},
		{"modifier is not doubled", "1d4+10", "2d4+10"},
		{"negative modifier", "1d6-1", "2d6-1"},
		{"mixed damage doubles every term", "1d8+2d6+3", "2d8+4d6+3"},
		{"spaces and case are normalized", " 2D6 + 3 ", "4d6+3"},
		{"no dice term passes through", "sword", "sword"},
		{"empty passes through", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := CriticalDamageFormula(tt.input); result != tt.expected {
				t.Errorf("CriticalDamageFormula(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
