// Package midiexport renders a compiled chart as a standard MIDI file,
// a tempo track plus one track per lane column that has notes (columns
// with no notes get no track), for use as a static preview artifact --
// never for realtime playback.
//
// Grounded on a step-sequencer-to-SMF idiom (gitlab.com/gomidi/midi/v2
// and its smf subpackage): build an smf.SMF with MetricTicks
// resolution, add a tempo/meter track first, then one note track per
// channel with NoteOn/NoteOff pairs spaced by delta ticks, and call
// Track.Close before adding it to the file.
package midiexport

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/schollz/mdfc/internal/types"
)

const (
	ticksPerQuarterNote = 960
	baseNote             = 60 // middle C; column N maps to baseNote+N
	noteVelocity         = 100
)

type event struct {
	tick   uint32
	isOn   bool
	col    types.Col
	key    uint8
}

// Export renders chart to a standard MIDI file at path, using bpm as
// the constant tempo for the whole file (the compiler core does not
// retain per-step tempo once compiled, so the caller supplies the
// declared tempo explicitly).
func Export(chart *types.Chart, bpm float64, path string) error {
	if bpm <= 0 {
		return fmt.Errorf("invalid bpm %v for midi export", bpm)
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarterNote)

	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaMeter(4, 4))
	tempoTrack.Add(0, smf.MetaTempo(bpm))
	tempoTrack.Close(0)
	if err := sm.Add(tempoTrack); err != nil {
		return fmt.Errorf("adding tempo track: %w", err)
	}

	byCol := make(map[types.Col][]event)
	for _, n := range chart.Notes {
		key := uint8(baseNote + int(n.Col))
		onTick := microsToTicks(n.TimeUs, bpm)
		byCol[n.Col] = append(byCol[n.Col], event{tick: onTick, isOn: true, col: n.Col, key: key})
		offTick := onTick + 1
		if n.Kind.IsHold() {
			offTick = microsToTicks(n.EndTimeUs, bpm)
		}
		byCol[n.Col] = append(byCol[n.Col], event{tick: offTick, isOn: false, col: n.Col, key: key})
	}

	cols := make([]types.Col, 0, len(byCol))
	for c := range byCol {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })

	for _, col := range cols {
		events := byCol[col]
		sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })

		var track smf.Track
		var lastTick uint32
		channel := uint8(int(col) % 16)
		for _, ev := range events {
			delta := uint32(0)
			if ev.tick > lastTick {
				delta = ev.tick - lastTick
			}
			if ev.isOn {
				track.Add(delta, midi.NoteOn(channel, ev.key, noteVelocity))
			} else {
				track.Add(delta, midi.NoteOff(channel, ev.key))
			}
			lastTick = ev.tick
		}
		track.Close(0)
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("adding track for column %d: %w", col, err)
		}
	}

	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func microsToTicks(timeUs types.TimeUs, bpm float64) uint32 {
	quarterNoteUs := 60_000_000.0 / bpm
	ticks := float64(timeUs) / quarterNoteUs * float64(ticksPerQuarterNote)
	return uint32(ticks + 0.5)
}
