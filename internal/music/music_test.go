package music

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schollz/mdfc/internal/types"
)

func TestColName(t *testing.T) {
	tests := []struct {
		name string
		col  types.Col
		want string
	}{
		{"scratch", types.ColScratch, "scratch"},
		{"col1", types.Col1, "1"},
		{"col7", types.Col7, "7"},
		{"out of range low", types.Col(-1), "?"},
		{"out of range high", types.ColCount, "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColName(tt.col))
		})
	}
}

func TestKindLabel(t *testing.T) {
	tests := []struct {
		name string
		kind types.Kind
		want string
	}{
		{"tap", types.Tap, "tap"},
		{"cn", types.CN, "charge note"},
		{"mss", types.MSS, "scratch spin"},
		{"unknown", types.Kind(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindLabel(tt.kind))
		})
	}
}
