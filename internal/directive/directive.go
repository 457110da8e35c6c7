// Package directive owns the subset of compile state that directives
// mutate (BPM, div, whether a manifest has been bound) and applies one
// classified directive line at a time.
package directive

import (
	"math"
	"strconv"
	"strings"

	"github.com/schollz/mdfc/internal/diag"
)

// State is the mutable slice of compile state that directives write to.
// internal/timemap and internal/compiler each keep their own State while
// walking the directive lines.
type State struct {
	BPM             float64
	Div             int
	BPMSet          bool
	DivSet          bool
	ManifestPath    string
	ManifestBound   bool
}

// Apply interprets one "@name args" line (already stripped of its
// leading "@" is NOT assumed -- Trimmed still begins with "@") and
// mutates State in place. fileLine is passed through for diagnostics.
func (s *State) Apply(trimmed string, fileLine int) *diag.Diagnostic {
	body := strings.TrimPrefix(trimmed, "@")
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return diag.New(diag.ECodeUnknownDirective, diag.Parse, "empty directive").WithLine(fileLine)
	}
	name := fields[0]
	args := fields[1:]

	switch name {
	case "bpm":
		return s.applyBPM(args, fileLine)
	case "div":
		return s.applyDiv(args, fileLine)
	case "sound_manifest":
		return s.applyManifest(args, fileLine)
	default:
		return diag.New(diag.ECodeUnknownDirective, diag.Parse, "unknown directive @%s", name).WithLine(fileLine)
	}
}

func (s *State) applyBPM(args []string, fileLine int) *diag.Diagnostic {
	if len(args) != 1 {
		return diag.New(diag.ECodeBPMInvalid, diag.TimeMap, "@bpm takes exactly one argument").WithLine(fileLine)
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return diag.New(diag.ECodeBPMInvalid, diag.TimeMap, "@bpm must be a positive finite number, got %q", args[0]).WithLine(fileLine)
	}
	s.BPM = v
	s.BPMSet = true
	return nil
}

func (s *State) applyDiv(args []string, fileLine int) *diag.Diagnostic {
	if len(args) != 1 {
		return diag.New(diag.ECodeDivInvalid, diag.TimeMap, "@div takes exactly one argument").WithLine(fileLine)
	}
	v, err := strconv.Atoi(args[0])
	if err != nil || v <= 0 {
		return diag.New(diag.ECodeDivInvalid, diag.TimeMap, "@div must be a positive integer, got %q", args[0]).WithLine(fileLine)
	}
	s.Div = v
	s.DivSet = true
	return nil
}

func (s *State) applyManifest(args []string, fileLine int) *diag.Diagnostic {
	if s.ManifestBound {
		return diag.New(diag.ECodeManifestDuplicate, diag.IO, "@sound_manifest may only appear once").WithLine(fileLine)
	}
	if len(args) != 1 {
		return diag.New(diag.ECodeManifestDuplicate, diag.IO, "@sound_manifest takes exactly one path argument").WithLine(fileLine)
	}
	s.ManifestPath = args[0]
	s.ManifestBound = true
	return nil
}

// CheckReadyForStep verifies BPM and Div are bound before the first step
// consumes time.
func (s *State) CheckReadyForStep(fileLine int) *diag.Diagnostic {
	if !s.BPMSet {
		return diag.New(diag.ECodeBPMUndeclared, diag.TimeMap, "@bpm must be set before the first step").WithLine(fileLine)
	}
	if !s.DivSet {
		return diag.New(diag.ECodeDivUndeclared, diag.TimeMap, "@div must be set before the first step").WithLine(fileLine)
	}
	return nil
}
