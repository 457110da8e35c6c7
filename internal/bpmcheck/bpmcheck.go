// Package bpmcheck performs an advisory sanity check between a chart's
// declared tempo and the duration of a looping WAV asset referenced by
// its sound manifest. It never blocks a compile -- a mismatch is
// reported as a Result for a front-end to surface, not a diagnostic.
//
// Length is grounded on the PCM-duration computation used elsewhere in
// this module's ecosystem for WAV introspection
// (github.com/go-audio/wav's Decoder): read the format header, prefer
// the library's own Duration() for non-PCM files, and otherwise derive
// seconds from PCM chunk size / frame size / sample rate directly.
package bpmcheck

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 65534
)

// Length returns the duration in seconds of a WAV file at path.
func Length(path string) (seconds float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return 0, fmt.Errorf("%s: not a valid WAV file", path)
	}
	d.ReadInfo()

	if int(d.WavAudioFormat) != wavFormatPCM && int(d.WavAudioFormat) != wavFormatExtensible {
		var dur time.Duration
		dur, err = d.Duration()
		if err != nil {
			return 0, fmt.Errorf("%s: duration: %w", path, err)
		}
		return dur.Seconds(), nil
	}

	if d.SampleRate == 0 {
		return 0, fmt.Errorf("%s: invalid sample rate 0", path)
	}
	bytesPerSample := int64(d.BitDepth) / 8
	if bytesPerSample <= 0 {
		return 0, fmt.Errorf("%s: invalid bit depth %d", path, d.BitDepth)
	}
	chans := int64(d.NumChans)
	if chans <= 0 {
		return 0, fmt.Errorf("%s: invalid channel count %d", path, d.NumChans)
	}

	if !d.WasPCMAccessed() && d.PCMChunk == nil {
		if err := d.FwdToPCM(); err != nil {
			return 0, fmt.Errorf("%s: locate PCM: %w", path, err)
		}
	}

	totalBytes := d.PCMLen()
	if totalBytes <= 0 {
		return 0, fmt.Errorf("%s: no PCM data", path)
	}

	frameSize := bytesPerSample * chans
	if frameSize == 0 {
		return 0, fmt.Errorf("%s: invalid frame size", path)
	}

	totalFrames := totalBytes / frameSize
	return float64(totalFrames) / float64(d.SampleRate), nil
}

// Result is the outcome of comparing a loop asset's measured duration
// against what the chart's declared tempo predicts for a given number
// of beats.
type Result struct {
	Path            string
	ExpectedSeconds float64
	ActualSeconds   float64
	DriftSeconds    float64
	Mismatch        bool
}

// Check measures path and compares it against the duration predicted
// by bpm and beats, flagging a Mismatch when the drift exceeds
// toleranceSeconds.
func Check(path string, bpm, beats, toleranceSeconds float64) (Result, error) {
	actual, err := Length(path)
	if err != nil {
		return Result{}, err
	}
	if bpm <= 0 {
		return Result{}, fmt.Errorf("invalid bpm %v for loop check", bpm)
	}
	expected := beats * 60.0 / bpm
	drift := math.Abs(actual - expected)
	return Result{
		Path:            path,
		ExpectedSeconds: expected,
		ActualSeconds:   actual,
		DriftSeconds:    drift,
		Mismatch:        drift > toleranceSeconds,
	}, nil
}
