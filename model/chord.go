package model

type Notes = []Pitch

// Chord is one slice of the harmonic reduction: everything sounding from
// Offset until the next slice starts.
type Chord struct {
	Offset   float64
	Duration float64
	Measure  int
	Notes    Notes

	// VoiceNotes[i] holds what voice i sounds in this slice, nil when
	// the voice is silent.
	VoiceNotes []Notes
}

// SoundingVoices counts the voices contributing at least one pitch.
func (c Chord) SoundingVoices() int {
	var n int
	for _, notes := range c.VoiceNotes {
		if len(notes) > 0 {
			n++
		}
	}
	return n
}

// PitchClasses returns the distinct pitch classes, ascending.
func (c Chord) PitchClasses() []int {
	var seen [12]bool
	for _, p := range c.Notes {
		seen[p.PitchClass()] = true
	}
	var res []int
	for pc, ok := range seen {
		if ok {
			res = append(res, pc)
		}
	}
	return res
}

// Bass is the lowest sounding pitch. Notes is kept sorted low to high.
func (c Chord) Bass() (Pitch, bool) {
	if len(c.Notes) == 0 {
		return Pitch{}, false
	}
	return c.Notes[0], true
}
