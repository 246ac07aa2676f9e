package model

import "sort"

type EventKind int

const (
	NoteKind EventKind = iota
	ChordKind
)

func (k EventKind) String() string {
	if k == ChordKind {
		return "chord"
	}
	return "note"
}

// NoteEvent is one sounding event in a voice: a single pitch (a note) or a
// simultaneity of pitches (a chord). Offset and Duration are in quarter
// notes; Measure is 1-based.
type NoteEvent struct {
	Kind     EventKind `json:"kind"`
	Pitches  []Pitch   `json:"pitches"`
	Offset   float64   `json:"offset"`
	Duration float64   `json:"duration"`
	Measure  int       `json:"measure"`
}

func NewNote(p Pitch, offset, duration float64, measure int) NoteEvent {
	return NoteEvent{
		Kind:     NoteKind,
		Pitches:  []Pitch{p},
		Offset:   offset,
		Duration: duration,
		Measure:  measure,
	}
}

// NewChord orders the pitches low to high and drops repeated values.
func NewChord(pitches []Pitch, offset, duration float64, measure int) NoteEvent {
	ordered := make([]Pitch, len(pitches))
	copy(ordered, pitches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Value < ordered[j].Value
	})
	var unique []Pitch
	for i, p := range ordered {
		if i > 0 && p.Value == ordered[i-1].Value {
			continue
		}
		unique = append(unique, p)
	}
	return NoteEvent{
		Kind:     ChordKind,
		Pitches:  unique,
		Offset:   offset,
		Duration: duration,
		Measure:  measure,
	}
}

// Representative is the pitch used when a chord event has to stand in for
// a single voice pitch: its lowest pitch. ok is false for an event with no
// pitches at all.
func (e NoteEvent) Representative() (p Pitch, ok bool) {
	if len(e.Pitches) == 0 {
		return Pitch{}, false
	}
	lowest := e.Pitches[0]
	for _, candidate := range e.Pitches[1:] {
		if candidate.Value < lowest.Value {
			lowest = candidate
		}
	}
	return lowest, true
}

func (e NoteEvent) IsChord() bool {
	return e.Kind == ChordKind
}

func (e NoteEvent) End() float64 {
	return e.Offset + e.Duration
}
