// Package music holds small display-naming helpers for lane columns and
// note kinds, grounded on a MIDI-note-name-style lookup table: a fixed
// array indexed by an integer code, with a safe fallback string for an
// out-of-range input instead of a panic.
package music

import "github.com/schollz/mdfc/internal/types"

var colNames = []string{"scratch", "1", "2", "3", "4", "5", "6", "7"}

// ColName renders a lane column the way a diagnostic or CLI summary
// would reference it ("scratch", "1".."7").
func ColName(c types.Col) string {
	if c < 0 || int(c) >= len(colNames) {
		return "?"
	}
	return colNames[c]
}

var kindLabels = map[types.Kind]string{
	types.Tap:  "tap",
	types.CN:   "charge note",
	types.HCN:  "charge note (alt)",
	types.BSS:  "scratch hold",
	types.HBSS: "scratch hold (alt)",
	types.MSS:  "scratch spin",
	types.HMSS: "scratch spin (alt)",
}

// KindLabel renders a note kind as a short human-readable label,
// distinct from Kind.String()'s wire-format tag.
func KindLabel(k types.Kind) string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return "unknown"
}
