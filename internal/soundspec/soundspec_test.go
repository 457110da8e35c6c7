package soundspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNone(t *testing.T) {
	spec, rest, d := Parse("", 1)
	require.Nil(t, d)
	assert.Equal(t, None, spec.Form)
	assert.Equal(t, "", rest)
}

func TestParseSingle(t *testing.T) {
	spec, rest, d := Parse(": kick @rev_every 4", 1)
	require.Nil(t, d)
	assert.Equal(t, Single, spec.Form)
	assert.Equal(t, "kick", spec.ID)
	assert.Equal(t, "@rev_every 4", rest)
}

func TestParseEmptyArray(t *testing.T) {
	spec, rest, d := Parse(": []", 1)
	require.Nil(t, d)
	assert.Equal(t, None, spec.Form)
	assert.Equal(t, "", rest)
}

func TestParsePerLane(t *testing.T) {
	spec, rest, d := Parse(": [kick,-,-,snare,-,-,-,-]", 1)
	require.Nil(t, d)
	assert.Equal(t, PerLane, spec.Form)
	assert.Equal(t, "kick", spec.Slots[0])
	assert.Equal(t, "", spec.Slots[1])
	assert.Equal(t, "snare", spec.Slots[3])
	assert.Equal(t, "", rest)
}

func TestParsePerLaneWithTrailingAnnotation(t *testing.T) {
	spec, rest, d := Parse(": [a,-,-,-,-,-,-,-] @rev_at 3", 1)
	require.Nil(t, d)
	assert.Equal(t, PerLane, spec.Form)
	assert.Equal(t, "@rev_at 3", rest)
}

func TestParseBadArity(t *testing.T) {
	_, _, d := Parse(": [a,b,c]", 1)
	require.NotNil(t, d)
	assert.Equal(t, "E1002", d.Code)
}

func TestParseBadSlot(t *testing.T) {
	_, _, d := Parse(": [a,!,-,-,-,-,-,-]", 1)
	require.NotNil(t, d)
	assert.Equal(t, "E1003", d.Code)
}

func TestParseUnclosedArray(t *testing.T) {
	_, _, d := Parse(": [a,b,c,d,e,f,g,h", 1)
	require.NotNil(t, d)
	assert.Equal(t, "E1001", d.Code)
}

func TestParseMalformedID(t *testing.T) {
	_, _, d := Parse(": bad!id", 1)
	require.NotNil(t, d)
	assert.Equal(t, "E1001", d.Code)
}

func TestIsIDToken(t *testing.T) {
	assert.True(t, isIDToken("kick_01"))
	assert.False(t, isIDToken(""))
	assert.False(t, isIDToken("kick!"))
}
