// Package lexer turns a whole-file byte sequence into an ordered stream
// of classified lines that the directive interpreter and the two
// compile passes consume.
package lexer

import (
	"strings"

	"github.com/schollz/mdfc/internal/diag"
)

// Kind classifies a single source line.
type Kind int

const (
	Blank Kind = iota
	CommentLine
	Directive
	Step
)

// Line is one classified source line.
type Line struct {
	FileLine int    // 1-based file line number
	Raw      string // original text, trailing \r stripped
	Trimmed  string // whitespace-trimmed payload with inline comments stripped
	Kind     Kind

	// Populated only for Kind == Step.
	LaneField string // the 8-character lane field
	Meta      string // trailing ": spec" and/or "@rev_*" annotations, verbatim
}

// Classify splits source into classified lines.
func Classify(source string) ([]Line, *diag.Diagnostic) {
	rawLines := strings.Split(source, "\n")
	// A final "\n" terminates the last line; it does not start a new one.
	if n := len(rawLines); n > 0 && rawLines[n-1] == "" {
		rawLines = rawLines[:n-1]
	}
	out := make([]Line, 0, len(rawLines))

	for i, raw := range rawLines {
		fileLine := i + 1
		raw = strings.TrimSuffix(raw, "\r")
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" {
			out = append(out, Line{FileLine: fileLine, Raw: raw, Kind: Blank})
			continue
		}
		if trimmed[0] == '#' {
			out = append(out, Line{FileLine: fileLine, Raw: raw, Kind: CommentLine})
			continue
		}

		stripped := stripInlineComment(trimmed)

		if stripped[0] == '@' {
			out = append(out, Line{FileLine: fileLine, Raw: raw, Trimmed: stripped, Kind: Directive})
			continue
		}

		laneField, meta, ok := splitStepLine(stripped)
		if !ok {
			return nil, diag.New(diag.ECodeMalformedLaneField, diag.Parse,
				"malformed step line: expected an 8-character lane field").
				WithLine(fileLine).WithContext(trimmed)
		}

		out = append(out, Line{
			FileLine:  fileLine,
			Raw:       raw,
			Trimmed:   stripped,
			Kind:      Step,
			LaneField: laneField,
			Meta:      meta,
		})
	}

	return out, nil
}

// stripInlineComment drops a trailing "# ..." unless it is inside a
// bracketed "[ ... ]" region (the per-lane sound-spec array).
func stripInlineComment(s string) string {
	depth := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '#':
			if depth == 0 {
				return strings.TrimSpace(s[:i])
			}
		}
	}
	return s
}

// splitStepLine separates the 8-character lane field from any trailing
// metadata. The lane field is the first whitespace-delimited token;
// per-character legality (the reserved-character alphabet) is the
// generator's concern -- this function only checks shape so that a
// step line at least looks like one before the time map assigns it a
// start time.
func splitStepLine(s string) (laneField, meta string, ok bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", "", false
	}
	laneField = fields[0]
	if len([]rune(laneField)) != 8 {
		return "", "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(s, laneField))
	return laneField, rest, true
}
