// Package generator implements the second scan over the classified step
// lines that drives a per-column toggle state machine to produce taps,
// holds, checkpoints, and background-sound events, using the time map
// built by the first pass to resolve every instant.
//
// The per-lane pending-hold table is grounded on a note-tracking idiom
// common to MIDI players (a map[note]*NoteState opened on NoteOn and
// deleted on NoteOff): a flat map keyed by "the thing currently
// sounding", opened on first sight and closed on second sight, with a
// single struct carrying everything needed to emit the eventual note.
// The compiler core drops the concurrency (no goroutines, no mutex --
// a compile is synchronous). A closed toggle is deleted from the map; an
// entry still present at EOF keeps its opening position for the
// "unclosed toggle" check.
package generator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/schollz/mdfc/internal/diag"
	"github.com/schollz/mdfc/internal/lexer"
	"github.com/schollz/mdfc/internal/manifest"
	"github.com/schollz/mdfc/internal/soundspec"
	"github.com/schollz/mdfc/internal/types"
)

// pendingHold is the open half of a toggle: col, kind and start have been
// committed, but the closing row -- and therefore the end time and (for
// scratch-spin kinds) the reverse-checkpoint set -- hasn't been seen yet.
type pendingHold struct {
	kind           types.Kind
	startTimeUs    uint64
	startStepIndex int
	startLine      int
	soundID        string
	revEvery       int // 0 == unset
	revAt          []int
	checkpointsUs  []uint64
}

// Result is Pass 2's output prior to final sorting/assembly.
type Result struct {
	Notes     []types.Note
	BgmEvents []types.BgmEvent
}

// Run re-scans the classified lines in source order, driving the toggle
// state machine. stepStartTimeUs and totalDurationUs come from Pass 1
// (internal/timemap). manifestBound/resources come from whatever bound
// @sound_manifest during Pass 1, if anything.
func Run(lines []lexer.Line, stepStartTimeUs []uint64, totalDurationUs uint64, manifestBound bool, resources manifest.Map) (*Result, *diag.Diagnostic) {
	pending := make(map[types.Col]*pendingHold)
	res := &Result{}
	stepIndex := 0

	resolveSound := func(id string, fileLine int) *diag.Diagnostic {
		if id == "" {
			return nil
		}
		if !manifestBound {
			return diag.New(diag.ECodeMissingSoundID, diag.Semantic,
				"sound id %q referenced but no @sound_manifest was loaded", id).WithLine(fileLine)
		}
		if _, ok := resources[id]; !ok {
			return diag.New(diag.ECodeMissingSoundID, diag.Semantic,
				"sound id %q is not a key in the loaded manifest", id).WithLine(fileLine)
		}
		return nil
	}

	for _, line := range lines {
		if line.Kind != lexer.Step {
			continue
		}

		t := stepStartTimeUs[stepIndex]

		spec, rest, d := soundspec.Parse(line.Meta, line.FileLine)
		if d != nil {
			return nil, d.WithContext(line.Raw).WithStep(stepIndex)
		}

		ann, d := parseAnnotations(rest, line.FileLine)
		if d != nil {
			return nil, d.WithContext(line.Raw).WithStep(stepIndex)
		}

		laneField := []rune(line.LaneField)
		openedScratchSpin := (*pendingHold)(nil)
		consumedSingle := false
		anyActivity := false
		type slotEmission struct {
			col types.Col
			id  string
		}
		var redirectSlots []slotEmission

		for c := 0; c < int(types.ColCount); c++ {
			ch := laneField[c]
			col := types.Col(c)

			switch ch {
			case '.':
				continue

			case '!':
				anyActivity = true
				if c != 0 {
					return nil, diag.New(diag.ECodeCheckpointMisplaced, diag.Validation,
						"'!' only valid on column 0").WithLine(line.FileLine).WithContext(line.Raw).
						WithStep(stepIndex).WithLane(c)
				}
				p := pending[0]
				if p == nil || !p.kind.IsScratchSpin() {
					if p != nil && (p.kind == types.BSS || p.kind == types.HBSS) {
						return nil, diag.New(diag.ECodeCheckpointInBSS, diag.Validation,
							"'!' not valid inside an open BSS/HBSS toggle").WithLine(line.FileLine).
							WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
					}
					return nil, diag.New(diag.ECodeCheckpointMisplaced, diag.Validation,
						"'!' requires an open MSS/HMSS toggle on column 0").WithLine(line.FileLine).
						WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
				}
				p.checkpointsUs = append(p.checkpointsUs, t)
				if id := slotSoundID(spec, col); id != "" {
					redirectSlots = append(redirectSlots, slotEmission{col, id})
				}

			case 'N', 'S':
				anyActivity = true
				if ch == 'S' && c != 0 {
					return nil, diag.New(diag.ECodeColumnRestricted, diag.Validation,
						"'S' only valid on column 0").WithLine(line.FileLine).WithContext(line.Raw).
						WithStep(stepIndex).WithLane(c)
				}
				if _, exists := pending[col]; exists {
					return nil, diag.New(diag.ECodeDuplicatePlacement, diag.Validation,
						"tap on column %d collides with an open toggle", c).WithLine(line.FileLine).
						WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
				}
				id := attachSoundID(spec, col, &consumedSingle)
				if d := resolveSound(id, line.FileLine); d != nil {
					return nil, d.WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
				}
				res.Notes = append(res.Notes, types.Note{
					TimeUs:          t,
					Col:             col,
					Kind:            types.Tap,
					SoundID:         id,
					SourceStepIndex: stepIndex,
				})

			case 'l', 'h', 'b', 'B', 'm', 'M':
				kind, colOnly := charKind(ch)
				if colOnly && c != 0 {
					return nil, diag.New(diag.ECodeColumnRestricted, diag.Validation,
						"%q only valid on column 0", string(ch)).WithLine(line.FileLine).
						WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
				}
				anyActivity = true

				if existing, ok := pending[col]; ok {
					if existing.kind != kind {
						return nil, diag.New(diag.ECodeDuplicatePlacement, diag.Validation,
							"column %d closes %q but has an open %q toggle", c, string(ch), existing.kind.String()).
							WithLine(line.FileLine).WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
					}
					if d := resolveSound(existing.soundID, line.FileLine); d != nil {
						return nil, d.WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
					}
					note := types.Note{
						TimeUs:          existing.startTimeUs,
						Col:             col,
						Kind:            kind,
						EndTimeUs:       t,
						SoundID:         existing.soundID,
						SourceStepIndex: existing.startStepIndex,
					}
					if kind.IsScratchSpin() {
						note.ReverseCheckpointsUs = reverseCheckpoints(existing, stepStartTimeUs, stepIndex, t)
					}
					res.Notes = append(res.Notes, note)
					delete(pending, col)

					if id := slotSoundID(spec, col); id != "" {
						redirectSlots = append(redirectSlots, slotEmission{col, id})
					}
				} else {
					id := attachSoundID(spec, col, &consumedSingle)
					if d := resolveSound(id, line.FileLine); d != nil {
						return nil, d.WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
					}
					ph := &pendingHold{
						kind:           kind,
						startTimeUs:    t,
						startStepIndex: stepIndex,
						startLine:      line.FileLine,
						soundID:        id,
					}
					pending[col] = ph
					if kind.IsScratchSpin() {
						openedScratchSpin = ph
					}
				}

			default:
				return nil, diag.New(diag.ECodeReservedChar, diag.Validation,
					"unrecognized lane character %q", string(ch)).WithLine(line.FileLine).
					WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
			}
		}

		if ann.hasAny() {
			if openedScratchSpin == nil {
				return nil, diag.New(diag.ECodeMisplacedAnnotation, diag.Semantic,
					"@rev_every/@rev_at only valid on a step that opens an MSS/HMSS toggle").
					WithLine(line.FileLine).WithContext(line.Raw).WithStep(stepIndex)
			}
			openedScratchSpin.revEvery = ann.revEvery
			openedScratchSpin.revAt = ann.revAt
		}

		// Sound-spec redirection for an entirely idle row (§4.5(4)/(5)):
		// every non-dash slot (or the single id) becomes a BGM event even
		// though no column did anything at all.
		if !anyActivity {
			switch spec.Form {
			case soundspec.Single:
				if d := resolveSound(spec.ID, line.FileLine); d != nil {
					return nil, d.WithContext(line.Raw).WithStep(stepIndex)
				}
				res.BgmEvents = append(res.BgmEvents, types.BgmEvent{TimeUs: t, SoundID: spec.ID})
			case soundspec.PerLane:
				for c := 0; c < int(types.ColCount); c++ {
					if spec.Slots[c] == "" {
						continue
					}
					if d := resolveSound(spec.Slots[c], line.FileLine); d != nil {
						return nil, d.WithContext(line.Raw).WithStep(stepIndex).WithLane(c)
					}
					res.BgmEvents = append(res.BgmEvents, types.BgmEvent{TimeUs: t, SoundID: spec.Slots[c]})
				}
			}
		} else {
			if spec.Form == soundspec.Single && !consumedSingle && spec.ID != "" {
				if d := resolveSound(spec.ID, line.FileLine); d != nil {
					return nil, d.WithContext(line.Raw).WithStep(stepIndex)
				}
				res.BgmEvents = append(res.BgmEvents, types.BgmEvent{TimeUs: t, SoundID: spec.ID})
			}
			for _, s := range redirectSlots {
				if d := resolveSound(s.id, line.FileLine); d != nil {
					return nil, d.WithContext(line.Raw).WithStep(stepIndex).WithLane(int(s.col))
				}
				res.BgmEvents = append(res.BgmEvents, types.BgmEvent{TimeUs: t, SoundID: s.id})
			}
		}

		stepIndex++
	}

	if len(pending) > 0 {
		// Deterministic: report the lowest column with an unclosed toggle.
		cols := make([]int, 0, len(pending))
		for c := range pending {
			cols = append(cols, int(c))
		}
		sort.Ints(cols)
		first := pending[types.Col(cols[0])]
		return nil, diag.New(diag.ECodeUnclosedToggle, diag.Validation,
			"unclosed %s toggle on column %d opened at line %d", first.kind.String(), cols[0], first.startLine).
			WithLine(first.startLine).WithLane(cols[0]).WithTimeUs(first.startTimeUs)
	}

	sortOutputs(res)
	return res, nil
}

func sortOutputs(res *Result) {
	sort.SliceStable(res.Notes, func(i, j int) bool {
		a, b := res.Notes[i], res.Notes[j]
		if a.TimeUs != b.TimeUs {
			return a.TimeUs < b.TimeUs
		}
		return a.Col < b.Col
	})
	sort.SliceStable(res.BgmEvents, func(i, j int) bool {
		return res.BgmEvents[i].TimeUs < res.BgmEvents[j].TimeUs
	})
}

// charKind maps a lane token to its note kind and reports whether that
// kind is restricted to column 0.
func charKind(ch rune) (kind types.Kind, columnRestricted bool) {
	switch ch {
	case 'l':
		return types.CN, false
	case 'h':
		return types.HCN, false
	case 'b':
		return types.BSS, true
	case 'B':
		return types.HBSS, true
	case 'm':
		return types.MSS, true
	case 'M':
		return types.HMSS, true
	}
	return types.Tap, false
}

// attachSoundID resolves the sound id a note-opening event (Tap or hold
// open) on this column should carry, per-lane slots mapping directly and
// the single-id form attaching to the first such event on the row.
func attachSoundID(spec soundspec.Spec, col types.Col, consumedSingle *bool) string {
	switch spec.Form {
	case soundspec.PerLane:
		return spec.Slots[col]
	case soundspec.Single:
		if !*consumedSingle {
			*consumedSingle = true
			return spec.ID
		}
	}
	return ""
}

// slotSoundID is attachSoundID's counterpart for redirect-triggering
// events (hold terminators, checkpoints): per-lane slots redirect
// individually; the single-id form is handled once at the row level by
// the caller, so this always returns "" for Single.
func slotSoundID(spec soundspec.Spec, col types.Col) string {
	if spec.Form == soundspec.PerLane {
		return spec.Slots[col]
	}
	return ""
}

// reverseCheckpoints merges @rev_every, @rev_at, and collected '!'
// times into a single deduplicated, ascending list, with endTimeUs
// itself excluded.
func reverseCheckpoints(p *pendingHold, stepStartTimeUs []uint64, endStepIndex int, endTimeUs uint64) []uint64 {
	seen := make(map[uint64]bool)
	var out []uint64

	add := func(t uint64) {
		if t == endTimeUs || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}

	i0 := p.startStepIndex
	l := endStepIndex - i0

	if p.revEvery > 0 {
		for k := 1; k*p.revEvery < l; k++ {
			add(stepStartTimeUs[i0+k*p.revEvery])
		}
	}
	for _, a := range p.revAt {
		if a >= 2 && a-1 < l {
			add(stepStartTimeUs[i0+a-1])
		}
	}
	for _, t := range p.checkpointsUs {
		add(t)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// annotations holds a step's parsed @rev_every/@rev_at values.
type annotations struct {
	revEvery int // 0 == unset
	revAt    []int
}

func (a annotations) hasAny() bool {
	return a.revEvery > 0 || len(a.revAt) > 0
}

// parseAnnotations parses the "@rev_every N" / "@rev_at a,b,..." tokens
// left over after soundspec.Parse has consumed the ": ..." segment.
func parseAnnotations(rest string, fileLine int) (annotations, *diag.Diagnostic) {
	var ann annotations
	fields := strings.Fields(rest)

	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "@rev_every":
			if i+1 >= len(fields) {
				return ann, diag.New(diag.ECodeBadRevEvery, diag.Parse, "@rev_every requires an argument").WithLine(fileLine)
			}
			i++
			n, err := strconv.Atoi(fields[i])
			if err != nil || n < 1 {
				return ann, diag.New(diag.ECodeBadRevEvery, diag.Parse, "@rev_every must be an integer >= 1, got %q", fields[i]).WithLine(fileLine)
			}
			ann.revEvery = n

		case "@rev_at":
			if i+1 >= len(fields) {
				return ann, diag.New(diag.ECodeBadRevAt, diag.Parse, "@rev_at requires an argument").WithLine(fileLine)
			}
			i++
			list, d := parseRevAtList(fields[i], fileLine)
			if d != nil {
				return ann, d
			}
			ann.revAt = list

		default:
			// Unrecognized trailing token; the line classifier/grammar is
			// responsible for having already stripped comments, so this is
			// genuinely malformed annotation syntax.
			return ann, diag.New(diag.ECodeBadRevEvery, diag.Parse, "unrecognized step annotation %q", fields[i]).WithLine(fileLine)
		}
	}

	return ann, nil
}

func parseRevAtList(token string, fileLine int) ([]int, *diag.Diagnostic) {
	parts := strings.Split(token, ",")
	seen := make(map[int]bool, len(parts))
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 2 {
			return nil, diag.New(diag.ECodeBadRevAt, diag.Parse, "@rev_at entries must be integers >= 2, got %q", p).WithLine(fileLine)
		}
		if seen[n] {
			return nil, diag.New(diag.ECodeBadRevAt, diag.Parse, "@rev_at entries must be distinct, duplicate %d", n).WithLine(fileLine)
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}
