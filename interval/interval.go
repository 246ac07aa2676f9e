// Package interval classifies the distance between two pitches. Every
// analyzer goes through Between so they all agree on what a fifth is.
package interval

import "github.com/jsphweid/harmonycheck/model"

type Quality int

const (
	Perfect Quality = iota
	Major
	Minor
	Augmented
	Diminished
)

func (q Quality) String() string {
	switch q {
	case Perfect:
		return "perfect"
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Augmented:
		return "augmented"
	case Diminished:
		return "diminished"
	}
	return "unknown"
}

func (q Quality) abbrev() string {
	return [...]string{"P", "M", "m", "A", "d"}[q]
}

const (
	Unison        = "P1"
	MinorSecond   = "m2"
	MajorSecond   = "M2"
	MinorThird    = "m3"
	MajorThird    = "M3"
	PerfectFourth = "P4"
	AugFourth     = "A4"
	DimFifth      = "d5"
	PerfectFifth  = "P5"
	MinorSixth    = "m6"
	MajorSixth    = "M6"
	MinorSeventh  = "m7"
	MajorSeventh  = "M7"
	Octave        = "P8"
)

type classEntry struct {
	generic int
	quality Quality
}

// one entry per semitone class; the tritone is read as an augmented fourth
var classTable = [12]classEntry{
	{1, Perfect},
	{2, Minor},
	{2, Major},
	{3, Minor},
	{3, Major},
	{4, Perfect},
	{4, Augmented},
	{5, Perfect},
	{6, Minor},
	{6, Major},
	{7, Minor},
	{7, Major},
}

// semitones of the perfect or major form of each simple generic interval
var diatonicSemitones = [8]int{0, 0, 2, 4, 5, 7, 9, 11}

// Info describes the interval from a to b.
type Info struct {
	// Semitones is b - a, negative when b is lower.
	Semitones  int
	SimpleName string
	Quality    Quality
	// Generic is the simple diatonic number, 1 (unison) .. 8 (octave).
	Generic int
	// Direction is -1, 0 or 1.
	Direction int
}

func (i Info) Size() int {
	if i.Semitones < 0 {
		return -i.Semitones
	}
	return i.Semitones
}

func (i Info) IsPerfectFifth() bool {
	return i.SimpleName == PerfectFifth
}

func (i Info) IsOctave() bool {
	return i.SimpleName == Octave
}

func (i Info) IsAugmented() bool {
	return i.Quality == Augmented
}

// Between computes the interval from a to b. The name is always taken
// from the lower pitch to the higher one, so swapping the arguments only
// flips Semitones and Direction.
func Between(a, b model.Pitch) Info {
	d := b.Value - a.Value
	info := Info{Semitones: d, Direction: sign(d)}

	low, high := a, b
	if d < 0 {
		low, high = b, a
	}
	size := high.Value - low.Value

	if generic, quality, ok := spelled(low, high, size); ok {
		info.Generic, info.Quality = generic, quality
	} else {
		entry := classTable[size%12]
		info.Generic, info.Quality = entry.generic, entry.quality
		if size > 0 && size%12 == 0 {
			info.Generic = 8
		}
	}
	info.SimpleName = info.Quality.abbrev() + string(rune('0'+info.Generic))
	return info
}

// spelled uses letter names when both pitches have readable ones.
func spelled(low, high model.Pitch, size int) (int, Quality, bool) {
	lowLetter, lowOctave, ok := low.Letter()
	if !ok {
		return 0, 0, false
	}
	highLetter, highOctave, ok := high.Letter()
	if !ok {
		return 0, 0, false
	}
	steps := highLetter - lowLetter + 7*(highOctave-lowOctave)
	if steps < 0 && size == 0 {
		steps = -steps
	}
	if steps < 0 {
		return 0, 0, false
	}

	generic := steps%7 + 1
	octaves := steps / 7
	if generic == 1 && octaves > 0 {
		generic = 8
		octaves--
	}
	diff := size - 12*octaves - diatonicSemitones[generic]
	if generic == 8 {
		diff = size - 12*(octaves+1)
	}

	perfectKind := generic == 1 || generic == 4 || generic == 5 || generic == 8
	switch {
	case perfectKind && diff == 0:
		return generic, Perfect, true
	case perfectKind && diff == 1:
		return generic, Augmented, true
	case perfectKind && diff == -1 && generic != 1:
		return generic, Diminished, true
	case !perfectKind && diff == 0:
		return generic, Major, true
	case !perfectKind && diff == -1:
		return generic, Minor, true
	case !perfectKind && diff == 1:
		return generic, Augmented, true
	case !perfectKind && diff == -2:
		return generic, Diminished, true
	}
	return 0, 0, false
}

// Motion returns the direction a voice moves from p to q.
func Motion(p, q model.Pitch) int {
	return sign(q.Value - p.Value)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
