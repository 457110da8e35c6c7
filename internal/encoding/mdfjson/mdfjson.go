// Package mdfjson encodes a compiled chart to the on-disk .mdf JSON
// format, optionally gzip-compressed. Grounded on the
// save-data-to-disk idiom used elsewhere in this module's ecosystem:
// marshal with jsoniter's standard-library-compatible config, then
// either write the bytes directly or wrap the writer in a
// compress/gzip.Writer.
package mdfjson

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/mdfc/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal renders a chart as indented JSON bytes.
func Marshal(chart *types.Chart) ([]byte, error) {
	return json.MarshalIndent(chart, "", "  ")
}

// Unmarshal parses chart JSON bytes produced by Marshal.
func Unmarshal(data []byte) (*types.Chart, error) {
	var chart types.Chart
	if err := json.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("parsing chart JSON: %w", err)
	}
	return &chart, nil
}

// WriteFile writes chart to path as JSON. When gz is true the output
// is gzip-compressed, conventionally named with a ".gz" suffix.
func WriteFile(chart *types.Chart, path string, gz bool) error {
	data, err := Marshal(chart)
	if err != nil {
		return fmt.Errorf("marshaling chart: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	if gz {
		gzWriter := gzip.NewWriter(f)
		defer gzWriter.Close()
		w = gzWriter
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a chart from path, transparently gunzipping when gz
// is true.
func ReadFile(path string, gz bool) (*types.Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if gz {
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Unmarshal(data)
}
