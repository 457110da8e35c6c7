package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBPM(t *testing.T) {
	var s State
	require.Nil(t, s.Apply("@bpm 150", 1))
	assert.Equal(t, 150.0, s.BPM)
	assert.True(t, s.BPMSet)
}

func TestApplyBPMInvalid(t *testing.T) {
	tests := []string{"@bpm", "@bpm abc", "@bpm -1", "@bpm 0", "@bpm 1 2"}
	for _, src := range tests {
		var s State
		d := s.Apply(src, 1)
		require.NotNil(t, d, src)
		assert.Equal(t, "E3003", d.Code, src)
	}
}

func TestApplyDiv(t *testing.T) {
	var s State
	require.Nil(t, s.Apply("@div 16", 1))
	assert.Equal(t, 16, s.Div)
	assert.True(t, s.DivSet)
}

func TestApplyDivInvalid(t *testing.T) {
	var s State
	d := s.Apply("@div 0", 1)
	require.NotNil(t, d)
	assert.Equal(t, "E3004", d.Code)
}

func TestApplyManifest(t *testing.T) {
	var s State
	require.Nil(t, s.Apply("@sound_manifest manifest.json", 1))
	assert.Equal(t, "manifest.json", s.ManifestPath)
	assert.True(t, s.ManifestBound)
}

func TestApplyManifestDuplicate(t *testing.T) {
	var s State
	require.Nil(t, s.Apply("@sound_manifest a.json", 1))
	d := s.Apply("@sound_manifest b.json", 2)
	require.NotNil(t, d)
	assert.Equal(t, "E2004", d.Code)
}

func TestApplyUnknownDirective(t *testing.T) {
	var s State
	d := s.Apply("@bogus", 1)
	require.NotNil(t, d)
	assert.Equal(t, "E1006", d.Code)
}

func TestCheckReadyForStep(t *testing.T) {
	var s State
	d := s.CheckReadyForStep(3)
	require.NotNil(t, d)
	assert.Equal(t, "E3001", d.Code)

	s.BPMSet = true
	d = s.CheckReadyForStep(3)
	require.NotNil(t, d)
	assert.Equal(t, "E3002", d.Code)

	s.DivSet = true
	assert.Nil(t, s.CheckReadyForStep(3))
}
