package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"YES", true},
		{"yes", true},
		{" YES.\n", true},
		{"YES, absolutely", true},
		{"NO", false},
		{"no way", false},
		{"maybe", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, parseVerdict(c.raw), "raw=%q", c.raw)
	}
}

func TestOfflineReportsUnavailable(t *testing.T) {
	_, err := Offline{}.Judge(context.Background(), "paper", "rock")
	assert.ErrorIs(t, err, ErrUnavailable)
}
