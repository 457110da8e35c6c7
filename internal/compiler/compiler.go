// Package compiler owns the per-compile state lifecycle: it wires the
// line classifier, the two passes, and the manifest loader together
// into the single Compile entry point. Grounded on a save-assembly
// orchestration style (gather the in-memory state into one value, hand
// it to the encoder) -- here Compile assembles a types.Chart from
// source bytes and hands it back instead of writing it to disk, since
// encoding to a concrete wire format is left to a separate package.
package compiler

import (
	"github.com/schollz/mdfc/internal/diag"
	"github.com/schollz/mdfc/internal/directive"
	"github.com/schollz/mdfc/internal/generator"
	"github.com/schollz/mdfc/internal/lexer"
	"github.com/schollz/mdfc/internal/manifest"
	"github.com/schollz/mdfc/internal/timemap"
	"github.com/schollz/mdfc/internal/types"
)

// Options configures a single Compile call. Meta carries
// front-end-supplied side-channel metadata that sits outside the
// compiler core's own grammar; VisualEvents/SpeedEvents are likewise
// carried through verbatim, never derived.
type Options struct {
	Meta         types.Meta
	VisualEvents []types.VisualEvent
	SpeedEvents  []types.SpeedEvent
	Loader       manifest.Loader // defaults to manifest.NewFileLoader() if nil
}

// Compile is a pure function from (source bytes, options) to
// (*types.Chart, diagnostic). It owns its working state exclusively for
// the duration of the call and releases it on return -- there is no
// state shared across Compile invocations.
func Compile(source string, opts Options) (*types.Chart, *diag.Diagnostic) {
	loader := opts.Loader
	if loader == nil {
		loader = manifest.NewFileLoader()
	}

	lines, d := lexer.Classify(source)
	if d != nil {
		return nil, d
	}

	tm, d := timemap.Build(lines)
	if d != nil {
		return nil, d
	}

	manifestBound, resources, d := resolveManifest(lines, loader)
	if d != nil {
		return nil, d
	}

	genResult, d := generator.Run(lines, tm.StepStartTimeUs, tm.TotalDurationUs, manifestBound, resources)
	if d != nil {
		return nil, d
	}

	chart := &types.Chart{
		Meta:         opts.Meta,
		Resources:    map[string]string(resources),
		VisualEvents: opts.VisualEvents,
		SpeedEvents:  opts.SpeedEvents,
		Notes:        genResult.Notes,
		BgmEvents:    genResult.BgmEvents,
	}
	chart.Meta.TotalDurationUs = tm.TotalDurationUs
	if chart.Meta.Version == "" {
		chart.Meta.Version = types.ChartFormatVersion
	}
	if chart.Resources == nil {
		chart.Resources = map[string]string{}
	}

	if d := Validate(chart); d != nil {
		return nil, d
	}

	return chart, nil
}

// resolveManifest re-walks the classified lines looking for an
// @sound_manifest directive and, if present, loads it exactly once.
// Directive syntax errors (duplicate manifest, bad args) were already
// caught by timemap.Build's pass over the same directives; this only
// performs the I/O the time map pass deliberately does not -- resolving,
// reading, and parsing the manifest file is delegated to the external
// loader, distinct from recognizing the directive itself.
func resolveManifest(lines []lexer.Line, loader manifest.Loader) (bool, manifest.Map, *diag.Diagnostic) {
	var st directive.State
	for _, line := range lines {
		if line.Kind != lexer.Directive {
			continue
		}
		if d := st.Apply(line.Trimmed, line.FileLine); d != nil {
			return false, nil, d
		}
		if st.ManifestBound && st.ManifestPath != "" {
			m, d := loader.Load(st.ManifestPath)
			if d != nil {
				return false, nil, d.WithLine(line.FileLine).WithContext(line.Raw)
			}
			return true, m, nil
		}
	}
	return false, nil, nil
}
