package chord

import "github.com/jsphweid/harmonycheck/model"

// RootFinder picks the root of a reduced chord. The choice changes which
// progressions and cadences are reported, so it is a policy the caller
// selects rather than something fixed here.
type RootFinder func(c model.Chord) (model.Pitch, bool)

// LowestRoot treats the bass as the root.
func LowestRoot(c model.Chord) (model.Pitch, bool) {
	return c.Bass()
}

// weight of each interval above a candidate root when the chord is
// stacked in thirds: thirds, then the fifth, then altered fifths and
// sevenths
var tertianWeights = [12]int{0, 0, 0, 4, 4, 0, 1, 3, 1, 0, 1, 1}

// TertianRoot scores every sounding pitch class by how well the others
// stack in thirds above it and returns the lowest sounding pitch of the
// winner. Ties go to the lower candidate, so an ambiguous chord falls back
// to LowestRoot.
func TertianRoot(c model.Chord) (model.Pitch, bool) {
	if len(c.Notes) == 0 {
		return model.Pitch{}, false
	}
	classes := c.PitchClasses()

	best, bestScore := c.Notes[0], -1
	tried := make(map[int]bool)
	for _, candidate := range c.Notes {
		pc := candidate.PitchClass()
		if tried[pc] {
			continue
		}
		tried[pc] = true

		var score int
		for _, other := range classes {
			score += tertianWeights[(other-pc+12)%12]
		}
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best, true
}

// IsInverted reports whether the bass differs from the root the finder
// picks.
func IsInverted(c model.Chord, root RootFinder) bool {
	r, ok := root(c)
	if !ok {
		return false
	}
	bass, _ := c.Bass()
	return r.PitchClass() != bass.PitchClass()
}

func RootFinderByName(name string) (RootFinder, bool) {
	switch name {
	case "lowest":
		return LowestRoot, true
	case "tertian", "":
		return TertianRoot, true
	}
	return nil, false
}
