// Package timemap implements the first compile pass: a single forward
// scan that assigns every step an absolute start time in microseconds,
// independent of the second pass's note/hold generation, so that
// forward-looking annotations (@rev_every, @rev_at) resolve to the same
// instant no matter what order holds close in.
//
// This mirrors a tick-accumulation idiom common to step sequencers,
// which reduce a nested step structure (phrase -> chain -> track) down
// to a single running tick total by summing one step's contribution at
// a time; here the per-step contribution is a duration in microseconds
// instead of a raw delta-time tick count, and the running total is
// itself the output (one entry per step) rather than a single sum.
package timemap

import (
	"math"

	"github.com/schollz/mdfc/internal/diag"
	"github.com/schollz/mdfc/internal/directive"
	"github.com/schollz/mdfc/internal/lexer"
)

// Result is Pass 1's output: one absolute start time per step, indexed
// by step ordinal, plus the terminal time one step past the last step.
type Result struct {
	StepStartTimeUs []uint64
	TotalDurationUs uint64
}

// Build scans classified lines once and produces the time map.
func Build(lines []lexer.Line) (*Result, *diag.Diagnostic) {
	var state directive.State
	var currentTimeUs uint64
	stepStartTimeUs := make([]uint64, 0, len(lines))

	for _, line := range lines {
		switch line.Kind {
		case lexer.Blank, lexer.CommentLine:
			continue
		case lexer.Directive:
			if d := state.Apply(line.Trimmed, line.FileLine); d != nil {
				return nil, d.WithContext(line.Raw)
			}
		case lexer.Step:
			if d := state.CheckReadyForStep(line.FileLine); d != nil {
				return nil, d.WithContext(line.Raw)
			}
			stepStartTimeUs = append(stepStartTimeUs, currentTimeUs)

			durationUs, d := stepDurationUs(state.BPM, state.Div)
			if d != nil {
				return nil, d.WithLine(line.FileLine).WithContext(line.Raw)
			}

			next := currentTimeUs + durationUs
			if next < currentTimeUs { // wrapped past 2^64-1
				return nil, diag.New(diag.ECodeTimeOverflow, diag.TimeMap,
					"cumulative time overflows 64-bit microseconds").
					WithLine(line.FileLine).WithContext(line.Raw)
			}
			currentTimeUs = next
		}
	}

	return &Result{StepStartTimeUs: stepStartTimeUs, TotalDurationUs: currentTimeUs}, nil
}

// stepDurationUs computes one step's duration:
//
//	seconds      = (60 / bpm) * (4 / div)
//	micros_float = seconds * 1_000_000
//	duration     = floor(micros_float + 0.5)   // round-half-up
func stepDurationUs(bpm float64, div int) (uint64, *diag.Diagnostic) {
	seconds := (60.0 / bpm) * (4.0 / float64(div))
	microsFloat := seconds * 1_000_000.0
	if microsFloat < 0 || math.IsInf(microsFloat, 0) || math.IsNaN(microsFloat) {
		return 0, diag.New(diag.ECodeTimeOverflow, diag.TimeMap, "step duration is not representable")
	}
	rounded := math.Floor(microsFloat + 0.5)
	if rounded > math.MaxUint64 {
		return 0, diag.New(diag.ECodeTimeOverflow, diag.TimeMap, "step duration overflows 64-bit microseconds")
	}
	return uint64(rounded), nil
}
