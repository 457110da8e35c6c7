// Package soundspec implements the grammar for a step line's trailing
// ": ..." metadata, in one of three shapes -- unset, a single sound id,
// or a per-lane 8-slot array.
package soundspec

import (
	"strings"

	"github.com/schollz/mdfc/internal/diag"
)

// Form tags which shape a parsed Spec takes.
type Form int

const (
	None Form = iota
	Single
	PerLane
)

// Spec is the parsed result of a step's trailing sound-spec metadata.
// Manifest-key validation is deliberately NOT performed here -- it is
// deferred until the generation pass associates an ID with a note or
// BGM emission.
type Spec struct {
	Form   Form
	ID     string    // valid when Form == Single
	Slots  [8]string // valid when Form == PerLane; "" means unset ("-")
}

const idChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"

func isIDToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(idChars, r) {
			return false
		}
	}
	return true
}

// Parse extracts and parses the ": ..." sound spec from a step's trailing
// metadata string (everything after the 8-character lane field). Any
// "@rev_every"/"@rev_at" tokens are left in place for the caller to
// parse separately; Parse only consumes the leading ": ..." segment, if
// present, and returns the remainder unconsumed.
func Parse(meta string, fileLine int) (Spec, string, *diag.Diagnostic) {
	meta = strings.TrimSpace(meta)
	if meta == "" || meta[0] != ':' {
		return Spec{Form: None}, meta, nil
	}

	body := meta[1:]
	body = strings.TrimLeft(body, " \t")

	// The spec body runs up to the next top-level whitespace that is not
	// inside a "[ ... ]" array.
	end := len(body)
	depth := 0
loop:
	for i, r := range body {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ' ', '\t':
			if depth == 0 {
				end = i
				break loop
			}
		}
	}
	token := body[:end]
	rest := strings.TrimSpace(body[end:])

	if token == "" {
		return Spec{Form: None}, rest, nil
	}

	if !strings.HasPrefix(token, "[") {
		if !isIDToken(token) {
			return Spec{}, rest, diag.New(diag.ECodeMalformedSoundSpec, diag.Parse,
				"malformed sound spec %q", token).WithLine(fileLine)
		}
		return Spec{Form: Single, ID: token}, rest, nil
	}

	if !strings.HasSuffix(token, "]") {
		return Spec{}, rest, diag.New(diag.ECodeMalformedSoundSpec, diag.Parse,
			"unclosed sound-spec array %q", token).WithLine(fileLine)
	}
	inner := token[1 : len(token)-1]
	if inner == "" {
		return Spec{Form: None}, rest, nil
	}

	rawSlots := strings.Split(inner, ",")
	if len(rawSlots) != 8 {
		return Spec{}, rest, diag.New(diag.ECodeBadSoundSpecArity, diag.Parse,
			"sound-spec array must have exactly 8 slots, got %d", len(rawSlots)).WithLine(fileLine)
	}

	var spec Spec
	spec.Form = PerLane
	for i, raw := range rawSlots {
		slot := strings.TrimSpace(raw)
		switch {
		case slot == "-":
			spec.Slots[i] = ""
		case isIDToken(slot):
			spec.Slots[i] = slot
		default:
			return Spec{}, rest, diag.New(diag.ECodeBadSoundSpecSlot, diag.Parse,
				"invalid sound-spec slot %d: %q", i, raw).WithLine(fileLine)
		}
	}
	return spec, rest, nil
}
