package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty string", "", nil},
		{"single value", "#3b82f6", []string{"#3b82f6"}},
		{"varied spacing", "CAD:1.36,  INR:83 ", []string{"CAD:1.36", "INR:83"}},
		{"trailing comma", "bitcoin,", []string{"bitcoin"}},
		{"leading comma", ",ethereum", []string{"ethereum"}},
		{"only spaces", "   ", nil},
		{"comma only", ",", nil},
		{"blank entries", "a, ,b", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCSV(tt.input))
		})
	}
}
