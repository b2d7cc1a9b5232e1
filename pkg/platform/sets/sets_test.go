package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims and lowercases",
			input:    []string{"  CPR  ", "First_Aid "},
			expected: []string{"cpr", "first_aid"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"nanny-share", "carpool", "Nanny-Share", "helper"},
			expected: []string{"nanny-share", "carpool", "helper"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"live-in", "", "  "},
			expected: []string{"live-in"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestIntersect(t *testing.T) {
	triggers := []string{"host-share", "care-exchange", "offer-pickups", "offer-backup"}

	assert.Equal(t, []string{"host-share", "offer-backup"},
		Intersect(triggers, []string{"offer-backup", "nanny-share", "host-share"}))
	assert.Nil(t, Intersect(triggers, []string{"nanny-share"}))
	assert.Nil(t, Intersect(triggers, nil))
}
