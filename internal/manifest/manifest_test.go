package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"kick":"sfx/kick.wav","snare":"sfx/snare.wav"}`), 0o644))

	m, d := NewFileLoader().Load(path)
	require.Nil(t, d)
	assert.Equal(t, Map{"kick": "sfx/kick.wav", "snare": "sfx/snare.wav"}, m)
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, d := NewFileLoader().Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NotNil(t, d)
	assert.Equal(t, "E2001", d.Code)
}

func TestFileLoaderInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, d := NewFileLoader().Load(path)
	require.NotNil(t, d)
	assert.Equal(t, "E2002", d.Code)
}

func TestFileLoaderEmptyAssetPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"kick":""}`), 0o644))

	_, d := NewFileLoader().Load(path)
	require.NotNil(t, d)
	assert.Equal(t, "E2003", d.Code)
}

func TestFileLoaderValidationDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"kick":""}`), 0o644))

	loader := &FileLoader{ValidateValues: false}
	m, d := loader.Load(path)
	require.Nil(t, d)
	assert.Equal(t, Map{"kick": ""}, m)
}
