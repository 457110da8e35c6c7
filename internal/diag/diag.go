// Package diag defines the compiler's structured diagnostic: the single
// value shape every failure path in internal/lexer, internal/directive,
// internal/timemap, internal/soundspec, internal/generator, and
// internal/compiler returns instead of an ad-hoc error string.
package diag

import "fmt"

// Kind classifies the stage of the compile pipeline a Diagnostic
// originated from.
type Kind string

const (
	Parse      Kind = "Parse"
	IO         Kind = "IO"
	Semantic   Kind = "Semantic"
	TimeMap    Kind = "TimeMap"
	Validation Kind = "Validation"
)

// Diagnostic is a structured, positional compile failure. It implements
// error so it can be returned, wrapped with fmt.Errorf("%w", ...), and
// compared with errors.As like any other Go error.
type Diagnostic struct {
	Code       string // E-prefixed identifier, e.g. "E4101"
	Kind       Kind
	Message    string
	File       string
	Line       int    // 1-based source line, 0 if not applicable
	Column     int    // 1-based lane column + 1, 0 if not applicable
	StepIndex  int    // step ordinal, -1 if not applicable
	Lane       int    // 0-7 lane column, -1 if not applicable
	TimeUs     uint64 // absolute time of the failing step, if known
	HasTimeUs  bool
	Context    string // trimmed source line
	Help       string
}

func (d *Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d): %s", d.Code, d.Kind, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Code, d.Kind, d.Message)
}

// New builds a Diagnostic with only the fields every failure needs; chain
// the With* setters for the optional positional context.
func New(code string, kind Kind, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:      code,
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		StepIndex: -1,
		Lane:      -1,
	}
}

func (d *Diagnostic) WithLine(line int) *Diagnostic {
	d.Line = line
	return d
}

func (d *Diagnostic) WithColumn(col int) *Diagnostic {
	d.Column = col
	return d
}

func (d *Diagnostic) WithStep(stepIndex int) *Diagnostic {
	d.StepIndex = stepIndex
	return d
}

func (d *Diagnostic) WithLane(lane int) *Diagnostic {
	d.Lane = lane
	return d
}

func (d *Diagnostic) WithTimeUs(t uint64) *Diagnostic {
	d.TimeUs = t
	d.HasTimeUs = true
	return d
}

func (d *Diagnostic) WithContext(ctx string) *Diagnostic {
	d.Context = ctx
	return d
}

func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

func (d *Diagnostic) WithFile(file string) *Diagnostic {
	d.File = file
	return d
}

// Known diagnostic codes, grouped by pipeline stage.
const (
	// Parse (E1xxx)
	ECodeMalformedLaneField    = "E1101"
	ECodeUnknownDirective      = "E1006"
	ECodeMalformedSoundSpec    = "E1001"
	ECodeBadSoundSpecArity     = "E1002"
	ECodeBadSoundSpecSlot      = "E1003"
	ECodeBadRevAt              = "E1004"
	ECodeBadRevEvery           = "E1005"

	// IO (E2xxx)
	ECodeManifestIO            = "E2001"
	ECodeManifestParse         = "E2002"
	ECodeManifestValue         = "E2003"
	ECodeManifestDuplicate     = "E2004"

	// Semantic (E2101, E4201)
	ECodeMissingSoundID        = "E2101"
	ECodeMisplacedAnnotation   = "E4201"

	// TimeMap (E3xxx)
	ECodeBPMUndeclared         = "E3001"
	ECodeDivUndeclared         = "E3002"
	ECodeBPMInvalid            = "E3003"
	ECodeDivInvalid            = "E3004"
	ECodeTimeOverflow          = "E3005"

	// Validation (E4xxx)
	ECodeReservedChar          = "E4001"
	ECodeColumnRestricted      = "E4002"
	ECodeCheckpointMisplaced   = "E4003"
	ECodeDuplicatePlacement    = "E4004"
	ECodeUnclosedToggle        = "E4101"
	ECodeCheckpointInBSS       = "E4102"
)
