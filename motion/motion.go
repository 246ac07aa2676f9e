// Package motion checks how pairs of voices move against each other:
// parallel and hidden perfect intervals, crossing and spacing.
//
// Voices are compared index by index: event k of one voice against event
// k of the other. Chord events stand in with their lowest pitch.
package motion

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/interval"
	"github.com/jsphweid/harmonycheck/model"
)

const (
	stepLimit          = 2
	adjacentSpacingMax = 12
	outerSpacingMax    = 24
)

type walker struct {
	skipped []model.SkippedEvent
	flagged map[[2]int]bool
}

// pitchAt is the representative pitch of event k, recording a skip once
// when the event has none.
func (w *walker) pitchAt(voice int, v model.Voice, k int) (model.Pitch, bool) {
	p, ok := v.Events[k].Representative()
	if !ok {
		key := [2]int{voice, k}
		if !w.flagged[key] {
			w.flagged[key] = true
			w.skipped = append(w.skipped, model.SkippedEvent{
				Analyzer: "motion",
				Voice:    voice + 1,
				Measure:  v.Events[k].Measure,
				Reason:   "event has no pitches",
			})
		}
	}
	return p, ok
}

// Check runs every pair rule over the score.
func Check(score *model.Score) ([]model.Finding, []model.SkippedEvent) {
	w := &walker{flagged: make(map[[2]int]bool)}
	var findings []model.Finding

	voices := score.Voices
	last := len(voices) - 1
	for i := 0; i < last; i++ {
		for j := i + 1; j <= last; j++ {
			findings = append(findings, w.parallels(voices, i, j)...)
			findings = append(findings, w.crossing(voices, i, j)...)
			findings = append(findings, w.spacing(voices, i, j)...)
		}
	}
	if last > 0 {
		findings = append(findings, w.hidden(voices, 0, last)...)
	}
	return findings, w.skipped
}

func aligned(a, b model.Voice) int {
	if len(a.Events) < len(b.Events) {
		return len(a.Events)
	}
	return len(b.Events)
}

// step holds the pitches of a voice pair at positions k and k+1.
type step struct {
	upperFrom, upperTo model.Pitch
	lowerFrom, lowerTo model.Pitch
}

func (w *walker) stepAt(voices []model.Voice, i, j, k int) (step, bool) {
	var s step
	var ok1, ok2, ok3, ok4 bool
	s.upperFrom, ok1 = w.pitchAt(i, voices[i], k)
	s.upperTo, ok2 = w.pitchAt(i, voices[i], k+1)
	s.lowerFrom, ok3 = w.pitchAt(j, voices[j], k)
	s.lowerTo, ok4 = w.pitchAt(j, voices[j], k+1)
	return s, ok1 && ok2 && ok3 && ok4
}

func (w *walker) parallels(voices []model.Voice, i, j int) []model.Finding {
	var res []model.Finding
	n := aligned(voices[i], voices[j])
	for k := 0; k+1 < n; k++ {
		s, ok := w.stepAt(voices, i, j, k)
		if !ok {
			continue
		}
		curr := interval.Between(s.upperFrom, s.lowerFrom)
		next := interval.Between(s.upperTo, s.lowerTo)
		if curr.SimpleName != next.SimpleName {
			continue
		}

		upperMotion := interval.Motion(s.upperFrom, s.upperTo)
		lowerMotion := interval.Motion(s.lowerFrom, s.lowerTo)
		if upperMotion == 0 || upperMotion != lowerMotion {
			continue
		}

		var findingType, name string
		switch {
		case curr.IsPerfectFifth():
			findingType, name = model.ParallelFifths, "fifth"
		case curr.IsOctave():
			findingType, name = model.ParallelOctaves, "octave"
		default:
			continue
		}
		res = append(res, model.Finding{
			Type:        findingType,
			Measure:     voices[i].Events[k].Measure,
			Description: fmt.Sprintf("Parallel %s movement between voices %d and %d", name, i+1, j+1),
			Severity:    model.High,
			Voice1:      i + 1,
			Voice2:      j + 1,
		})
	}
	return res
}

// hidden looks for the outer voices arriving on a perfect interval in
// similar motion with a leap in the upper voice.
func (w *walker) hidden(voices []model.Voice, upper, lower int) []model.Finding {
	var res []model.Finding
	n := aligned(voices[upper], voices[lower])
	for k := 0; k+1 < n; k++ {
		s, ok := w.stepAt(voices, upper, lower, k)
		if !ok {
			continue
		}
		upperMove := interval.Between(s.upperFrom, s.upperTo)
		lowerMove := interval.Between(s.lowerFrom, s.lowerTo)
		if upperMove.Direction == 0 || upperMove.Direction != lowerMove.Direction {
			continue
		}
		next := interval.Between(s.upperTo, s.lowerTo)
		if !next.IsPerfectFifth() && !next.IsOctave() {
			continue
		}
		if upperMove.Size() <= stepLimit {
			continue
		}
		res = append(res, model.Finding{
			Type:        model.HiddenPerfectInterval,
			Measure:     voices[upper].Events[k].Measure,
			Description: fmt.Sprintf("Hidden %s between outer voices", next.SimpleName),
			Severity:    model.Low,
			Voice1:      upper + 1,
			Voice2:      lower + 1,
		})
	}
	return res
}

func (w *walker) crossing(voices []model.Voice, i, j int) []model.Finding {
	var res []model.Finding
	n := aligned(voices[i], voices[j])
	for k := 0; k < n; k++ {
		upper, ok1 := w.pitchAt(i, voices[i], k)
		lower, ok2 := w.pitchAt(j, voices[j], k)
		if !ok1 || !ok2 || upper.Value >= lower.Value {
			continue
		}
		res = append(res, model.Finding{
			Type:        model.VoiceCrossing,
			Measure:     voices[i].Events[k].Measure,
			Description: fmt.Sprintf("Voice %d crosses below voice %d", i+1, j+1),
			Severity:    model.Medium,
			Voice1:      i + 1,
			Voice2:      j + 1,
		})
	}
	return res
}

// spacing limits adjacent upper voices to an octave apart and the outer
// voices to two octaves. The pair that includes the bass is left alone
// unless it is the only pair.
func (w *walker) spacing(voices []model.Voice, i, j int) []model.Finding {
	last := len(voices) - 1
	adjacent := j == i+1 && j < last
	outer := i == 0 && j == last
	if !adjacent && !outer {
		return nil
	}

	var res []model.Finding
	n := aligned(voices[i], voices[j])
	for k := 0; k < n; k++ {
		upper, ok1 := w.pitchAt(i, voices[i], k)
		lower, ok2 := w.pitchAt(j, voices[j], k)
		if !ok1 || !ok2 {
			continue
		}
		distance := upper.Value - lower.Value
		measure := voices[i].Events[k].Measure
		if adjacent && distance > adjacentSpacingMax {
			res = append(res, model.Finding{
				Type:        model.VoiceSpacing,
				Measure:     measure,
				Description: fmt.Sprintf("Excessive spacing between voices %d and %d", i+1, j+1),
				Severity:    model.Medium,
				Voice1:      i + 1,
				Voice2:      j + 1,
			})
		}
		if outer && distance > outerSpacingMax {
			res = append(res, model.Finding{
				Type:        model.VoiceSpacing,
				Measure:     measure,
				Description: "Total voice spacing exceeds two octaves",
				Severity:    model.Low,
				Voice1:      i + 1,
				Voice2:      j + 1,
			})
		}
	}
	return res
}
