package compiler

import (
	"github.com/schollz/mdfc/internal/diag"
	"github.com/schollz/mdfc/internal/types"
)

// Validate is the last line of defense: it asserts the structural
// invariants of an assembled chart hold. A failure here indicates a
// compiler defect (a bug in one of the two passes), not a malformed
// source file -- those are caught earlier with a precise position.
// Validate reports generically since, by construction, it should never
// fire.
func Validate(chart *types.Chart) *diag.Diagnostic {
	for i := 1; i < len(chart.Notes); i++ {
		prev, cur := chart.Notes[i-1], chart.Notes[i]
		if cur.TimeUs < prev.TimeUs || (cur.TimeUs == prev.TimeUs && cur.Col < prev.Col) {
			return diag.New("E9001", diag.Validation, "internal error: notes not sorted at index %d", i)
		}
	}
	for i := 1; i < len(chart.BgmEvents); i++ {
		if chart.BgmEvents[i].TimeUs < chart.BgmEvents[i-1].TimeUs {
			return diag.New("E9002", diag.Validation, "internal error: bgm_events not sorted at index %d", i)
		}
	}
	for _, n := range chart.Notes {
		if n.Kind.IsHold() && n.EndTimeUs <= n.TimeUs {
			return diag.New("E9003", diag.Validation, "internal error: hold at %d,%d has end_time_us <= time_us", n.TimeUs, n.Col)
		}
		if n.Kind.ScratchOnly() && n.Col != types.ColScratch {
			return diag.New("E9004", diag.Validation, "internal error: %s note on non-scratch column %d", n.Kind.String(), n.Col)
		}
		var prevCp uint64
		for i, cp := range n.ReverseCheckpointsUs {
			if cp <= n.TimeUs || cp >= n.EndTimeUs {
				return diag.New("E9005", diag.Validation, "internal error: checkpoint %d out of (time_us, end_time_us) bounds", cp)
			}
			if i > 0 && cp <= prevCp {
				return diag.New("E9006", diag.Validation, "internal error: checkpoints not strictly ascending")
			}
			prevCp = cp
		}
		if n.SoundID != "" {
			if _, ok := chart.Resources[n.SoundID]; !ok {
				return diag.New("E9007", diag.Validation, "internal error: note sound id %q missing from resources", n.SoundID)
			}
		}
	}
	for _, e := range chart.BgmEvents {
		if _, ok := chart.Resources[e.SoundID]; !ok {
			return diag.New("E9007", diag.Validation, "internal error: bgm sound id %q missing from resources", e.SoundID)
		}
	}
	return nil
}
