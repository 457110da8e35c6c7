// Package manifest resolves the external sound-id -> asset-path mapping
// a chart references. The core only needs a key->path map; how it got
// there is a caller concern, so Loader is the seam the compiler depends
// on, and FileLoader is the default jsoniter-backed implementation --
// the same library (github.com/json-iterator/go) and the same
// "var json = jsoniter.ConfigCompatibleWithStandardLibrary" convention
// used elsewhere in this module for save-file style JSON.
package manifest

import (
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/mdfc/internal/diag"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Map is the resolved sound-id -> asset-path mapping.
type Map map[string]string

// Loader resolves a manifest path to a Map. Resolving, reading, and
// parsing are delegated to the implementation; the compiler core treats
// failures as E2001 (I/O), E2002 (parse), E2003 (value validation).
type Loader interface {
	Load(path string) (Map, *diag.Diagnostic)
}

// FileLoader reads a manifest as a JSON object of string -> string.
type FileLoader struct {
	// ValidateValues, when true, rejects empty-string paths. Enabled by
	// default since a blank asset path can never resolve to a file.
	ValidateValues bool
}

// NewFileLoader returns a FileLoader with value validation enabled.
func NewFileLoader() *FileLoader {
	return &FileLoader{ValidateValues: true}
}

func (l *FileLoader) Load(path string) (Map, *diag.Diagnostic) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.New(diag.ECodeManifestIO, diag.IO, "reading sound manifest %s: %v", path, err).
			WithHelp("check that the @sound_manifest path exists and is readable")
	}

	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, diag.New(diag.ECodeManifestParse, diag.IO, "parsing sound manifest %s: %v", path, err)
	}

	if l.ValidateValues {
		for id, assetPath := range m {
			if assetPath == "" {
				return nil, diag.New(diag.ECodeManifestValue, diag.IO,
					"sound manifest %s: empty asset path for id %q", path, id)
			}
		}
	}

	return m, nil
}
