package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/mdfc/internal/lexer"
	"github.com/schollz/mdfc/internal/manifest"
	"github.com/schollz/mdfc/internal/types"
)

func classifySteps(t *testing.T, source string) []lexer.Line {
	t.Helper()
	lines, d := lexer.Classify(source)
	require.Nil(t, d)
	return lines
}

func TestRunTapNoteSort(t *testing.T) {
	lines := classifySteps(t, ".N......\nN.......\n")
	times := []uint64{0, 100_000}
	res, d := Run(lines, times, 200_000, false, nil)
	require.Nil(t, d)
	require.Len(t, res.Notes, 2)
	// sorted by time, so col1@t0 must come before col0@t100000.
	assert.Equal(t, uint64(0), res.Notes[0].TimeUs)
	assert.Equal(t, types.Col1, res.Notes[0].Col)
	assert.Equal(t, uint64(100_000), res.Notes[1].TimeUs)
	assert.Equal(t, types.ColScratch, res.Notes[1].Col)
}

func TestRunDuplicatePlacement(t *testing.T) {
	lines := classifySteps(t, ".l......\n.N......\n.l......\n")
	times := []uint64{0, 100_000, 200_000}
	_, d := Run(lines, times, 300_000, false, nil)
	require.NotNil(t, d)
	assert.Equal(t, "E4004", d.Code)
}

func TestRunMismatchedToggleKind(t *testing.T) {
	lines := classifySteps(t, ".l......\n.h......\n")
	times := []uint64{0, 100_000}
	_, d := Run(lines, times, 200_000, false, nil)
	require.NotNil(t, d)
	assert.Equal(t, "E4004", d.Code)
}

func TestRunScratchCharOffColumn0(t *testing.T) {
	lines := classifySteps(t, ".S......\n")
	times := []uint64{0}
	_, d := Run(lines, times, 100_000, false, nil)
	require.NotNil(t, d)
	assert.Equal(t, "E4002", d.Code)
}

func TestRunCheckpointWithoutOpenMSS(t *testing.T) {
	lines := classifySteps(t, "!.......\n")
	times := []uint64{0}
	_, d := Run(lines, times, 100_000, false, nil)
	require.NotNil(t, d)
	assert.Equal(t, "E4003", d.Code)
}

func TestRunAnnotationWithoutScratchSpinOpen(t *testing.T) {
	lines := classifySteps(t, "N....... @rev_every 4\n")
	times := []uint64{0}
	_, d := Run(lines, times, 100_000, false, nil)
	require.NotNil(t, d)
	assert.Equal(t, "E4201", d.Code)
}

func TestRunMissingSoundIDNoManifest(t *testing.T) {
	lines := classifySteps(t, "N....... : kick\n")
	times := []uint64{0}
	_, d := Run(lines, times, 100_000, false, nil)
	require.NotNil(t, d)
	assert.Equal(t, "E2101", d.Code)
}

func TestRunMissingSoundIDUnknownKey(t *testing.T) {
	lines := classifySteps(t, "N....... : kick\n")
	times := []uint64{0}
	_, d := Run(lines, times, 100_000, true, manifest.Map{"snare": "x.wav"})
	require.NotNil(t, d)
	assert.Equal(t, "E2101", d.Code)
}

func TestRunIdleRowPerLaneRedirectsToBgm(t *testing.T) {
	lines := classifySteps(t, "........ : [a,-,-,-,-,-,-,-]\n")
	times := []uint64{0}
	res, d := Run(lines, times, 100_000, true, manifest.Map{"a": "x.wav"})
	require.Nil(t, d)
	require.Len(t, res.BgmEvents, 1)
	assert.Equal(t, "a", res.BgmEvents[0].SoundID)
	assert.Len(t, res.Notes, 0)
}

func TestRunReservedCharacter(t *testing.T) {
	lines := classifySteps(t, "X.......\n")
	times := []uint64{0}
	_, d := Run(lines, times, 100_000, false, nil)
	require.NotNil(t, d)
	assert.Equal(t, "E4001", d.Code)
}
