package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissedAttention(t *testing.T) {
	tests := []struct {
		name       string
		engagement float64
		focus      float64
		missed     bool
	}{
		{"both healthy", 0.8, 0.9, false},
		{"low engagement high focus", 0.3, 0.5, true},
		{"high engagement low focus", 0.9, 0.2, true},
		{"both low", 0.1, 0.1, true},
		{"engagement at threshold", 0.4, 0.9, false},
		{"engagement just below threshold", 0.39, 0.9, true},
		{"focus at threshold", 0.9, 0.35, false},
		{"focus just below threshold", 0.9, 0.34, true},
		{"zero values", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missed, MissedAttention(tt.engagement, tt.focus))
		})
	}
}
