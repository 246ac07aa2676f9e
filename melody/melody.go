// Package melody checks each voice on its own: leaps, awkward intervals
// and range.
package melody

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/interval"
	"github.com/jsphweid/harmonycheck/model"
)

const (
	largeLeap       = 12
	leapThreshold   = 4
	maxLeapsInARow  = 2
	analyzerName    = "melody"
	noPitchesReason = "event has no pitches"
)

type Range struct {
	Name string
	Low  int
	High int
}

// Ranges are the traditional SATB bands, applied to the first four voices
// by index.
var Ranges = []Range{
	{"Soprano", 60, 79},
	{"Alto", 55, 74},
	{"Tenor", 48, 67},
	{"Bass", 40, 60},
}

var difficult = map[string]bool{
	interval.MajorSeventh: true,
	interval.DimFifth:     true,
	interval.AugFourth:    true,
}

func Check(score *model.Score) ([]model.Finding, []model.SkippedEvent) {
	var findings []model.Finding
	var skipped []model.SkippedEvent
	for i, v := range score.Voices {
		f, s := checkVoice(i, v)
		findings = append(findings, f...)
		skipped = append(skipped, s...)
	}
	return findings, skipped
}

func checkVoice(index int, v model.Voice) ([]model.Finding, []model.SkippedEvent) {
	var findings []model.Finding
	var skipped []model.SkippedEvent
	voice := index + 1

	pitches := make([]model.Pitch, len(v.Events))
	ok := make([]bool, len(v.Events))
	for k, e := range v.Events {
		pitches[k], ok[k] = e.Representative()
		if !ok[k] {
			skipped = append(skipped, model.SkippedEvent{
				Analyzer: analyzerName,
				Voice:    voice,
				Measure:  e.Measure,
				Reason:   noPitchesReason,
			})
		}
	}

	leaps := 0
	for k := 0; k+1 < len(v.Events); k++ {
		if !ok[k] || !ok[k+1] {
			continue
		}
		measure := v.Events[k].Measure
		info := interval.Between(pitches[k], pitches[k+1])
		size := info.Size()

		switch {
		case size > largeLeap:
			findings = append(findings, model.Finding{
				Type:        model.LargeLeap,
				Measure:     measure,
				Description: fmt.Sprintf("Large melodic leap of %d semitones in voice %d", size, voice),
				Severity:    model.Medium,
				Voice1:      voice,
			})
			leaps++
		case size > leapThreshold:
			leaps++
		default:
			leaps = 0
		}
		if leaps > maxLeapsInARow {
			findings = append(findings, model.Finding{
				Type:        model.ConsecutiveLeaps,
				Measure:     measure,
				Description: fmt.Sprintf("Too many consecutive leaps in voice %d", voice),
				Severity:    model.Medium,
				Voice1:      voice,
			})
		}

		switch {
		case info.IsAugmented():
			findings = append(findings, model.Finding{
				Type:        model.MelodicInterval,
				Measure:     measure,
				Description: fmt.Sprintf("Augmented interval (%s) in voice %d", info.SimpleName, voice),
				Severity:    model.High,
				Voice1:      voice,
			})
		case difficult[info.SimpleName]:
			findings = append(findings, model.Finding{
				Type:        model.MelodicInterval,
				Measure:     measure,
				Description: fmt.Sprintf("Difficult melodic interval (%s) in voice %d", info.SimpleName, voice),
				Severity:    model.Medium,
				Voice1:      voice,
			})
		}
	}

	if index < len(Ranges) {
		findings = append(findings, checkRange(Ranges[index], voice, v)...)
	}
	return findings, skipped
}

// checkRange looks at every pitch of every event, chords included.
func checkRange(r Range, voice int, v model.Voice) []model.Finding {
	var res []model.Finding
	for _, e := range v.Events {
		for _, p := range e.Pitches {
			var where string
			switch {
			case p.Value < r.Low:
				where = "below"
			case p.Value > r.High:
				where = "above"
			default:
				continue
			}
			res = append(res, model.Finding{
				Type:        model.VoiceRange,
				Measure:     e.Measure,
				Description: fmt.Sprintf("%s voice %s traditional range", r.Name, where),
				Severity:    model.Medium,
				Voice1:      voice,
			})
		}
	}
	return res
}
