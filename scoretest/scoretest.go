// Package scoretest builds small scores for tests.
package scoretest

import "github.com/jsphweid/harmonycheck/model"

// Voice is a line of quarter notes in 4/4 starting at offset 0. A value of
// -1 is a rest.
func Voice(values ...int) model.Voice {
	var v model.Voice
	for i, value := range values {
		if value < 0 {
			continue
		}
		offset := float64(i)
		v.Events = append(v.Events, model.NewNote(model.NewPitch(value), offset, 1, i/4+1))
	}
	return v
}

// Chords is a line of quarter-note chord events.
func Chords(chords ...[]int) model.Voice {
	var v model.Voice
	for i, values := range chords {
		var pitches []model.Pitch
		for _, value := range values {
			pitches = append(pitches, model.NewPitch(value))
		}
		v.Events = append(v.Events, model.NewChord(pitches, float64(i), 1, i/4+1))
	}
	return v
}

func Score(voices ...model.Voice) *model.Score {
	return &model.Score{Voices: voices, TimeSignature: model.CommonTime}
}

// InKey is Score with a key set.
func InKey(key model.Key, voices ...model.Voice) *model.Score {
	s := Score(voices...)
	s.Key = &key
	return s
}

var CMajor = model.Key{Tonic: 0, Mode: model.Major}
