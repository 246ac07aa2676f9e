package chord

import (
	"fmt"
	"math"
	"sort"

	"github.com/jsphweid/harmonycheck/model"
)

type reducedEvent struct {
	Offset    float64
	IsNoteOff bool
	Voice     int
	Note      model.Pitch
	Measure   int
}

// sounding tracks, per voice, the pitches currently held
type sounding []map[int]model.Pitch

// CreateChordKey is a stable identity for a set of pitches, used to tell
// whether two slices of the reduction hold the same notes.
func CreateChordKey(notes model.Notes) string {
	values := make([]int, 0, len(notes))
	for _, n := range notes {
		values = append(values, n.Value)
	}
	sort.Ints(values)
	var res string
	for i, v := range values {
		res += fmt.Sprintf("%v", v)
		if i < len(values)-1 {
			res += "-"
		}
	}
	return res
}

func getChord(pressed sounding, offset float64, measure int) model.Chord {
	c := model.Chord{
		Offset:     offset,
		Measure:    measure,
		VoiceNotes: make([]model.Notes, len(pressed)),
	}
	seen := make(map[int]bool)
	for voice, held := range pressed {
		for _, p := range held {
			c.VoiceNotes[voice] = append(c.VoiceNotes[voice], p)
			if !seen[p.Value] {
				seen[p.Value] = true
				c.Notes = append(c.Notes, p)
			}
		}
		sort.Slice(c.VoiceNotes[voice], func(i, j int) bool {
			return c.VoiceNotes[voice][i].Value < c.VoiceNotes[voice][j].Value
		})
	}
	sort.Slice(c.Notes, func(i, j int) bool {
		return c.Notes[i].Value < c.Notes[j].Value
	})
	return c
}

// Reduce collapses all voices into one chord per point in time where the
// set of sounding pitches can change (any onset or release). Points where
// nothing sounds are dropped. Events without pitches are skipped and
// reported.
func Reduce(score *model.Score) ([]model.Chord, []model.SkippedEvent) {
	var reducedEvents []reducedEvent
	var skipped []model.SkippedEvent

	for voice, v := range score.Voices {
		for _, e := range v.Events {
			if len(e.Pitches) == 0 || e.Duration <= 0 {
				skipped = append(skipped, model.SkippedEvent{
					Analyzer: "reduction",
					Voice:    voice + 1,
					Measure:  e.Measure,
					Reason:   fmt.Sprintf("event at offset %v has no pitches or no duration", e.Offset),
				})
				continue
			}
			for _, p := range e.Pitches {
				reducedEvents = append(reducedEvents,
					reducedEvent{Offset: e.Offset, Voice: voice, Note: p, Measure: e.Measure},
					reducedEvent{Offset: e.End(), IsNoteOff: true, Voice: voice, Note: p, Measure: e.Measure},
				)
			}
		}
	}

	// prioritize smaller offset values then note off
	sort.SliceStable(reducedEvents, func(i, j int) bool {
		if reducedEvents[i].Offset != reducedEvents[j].Offset {
			return reducedEvents[i].Offset < reducedEvents[j].Offset
		}
		return reducedEvents[i].IsNoteOff && !reducedEvents[j].IsNoteOff
	})

	pressed := make(sounding, len(score.Voices))
	for i := range pressed {
		pressed[i] = make(map[int]model.Pitch)
	}
	counts := make([]map[int]int, len(score.Voices))
	for i := range counts {
		counts[i] = make(map[int]int)
	}

	var chords []model.Chord
	measureLen := score.TimeSignature.MeasureLength()
	measure := 1
	for i := 0; i < len(reducedEvents); {
		offset := reducedEvents[i].Offset
		onset := false
		for ; i < len(reducedEvents) && reducedEvents[i].Offset == offset; i++ {
			evt := reducedEvents[i]
			if evt.IsNoteOff {
				counts[evt.Voice][evt.Note.Value]--
				if counts[evt.Voice][evt.Note.Value] <= 0 {
					delete(counts[evt.Voice], evt.Note.Value)
					delete(pressed[evt.Voice], evt.Note.Value)
				}
				continue
			}
			counts[evt.Voice][evt.Note.Value]++
			pressed[evt.Voice][evt.Note.Value] = evt.Note
			onset = true
			if evt.Measure > measure {
				measure = evt.Measure
			}
		}
		// a slice opened only by a release has no event to take the
		// measure from
		if !onset {
			if m := int(math.Floor(offset/measureLen)) + 1; m > measure {
				measure = m
			}
		}

		if n := len(chords); n > 0 {
			chords[n-1].Duration = offset - chords[n-1].Offset
		}
		// a silent slice still closes the one before it
		chords = append(chords, getChord(pressed, offset, measure))
	}

	var res []model.Chord
	for _, c := range chords {
		if len(c.Notes) > 0 {
			res = append(res, c)
		}
	}
	return res, skipped
}
