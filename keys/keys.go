// Package keys estimates the key of a score with the Krumhansl-Schmuckler
// method: a duration weighted pitch-class histogram is correlated against
// the major and minor key profiles in all twelve transpositions.
package keys

import (
	"errors"
	"math"
	"sort"

	"github.com/jsphweid/harmonycheck/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrNoPitches = errors.New("score has no sounding pitches")

var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

type Candidate struct {
	Key         model.Key
	Correlation float64
}

// Result holds all 24 keys ranked by correlation, best first.
type Result struct {
	Histogram  []float64
	Candidates []Candidate
}

// Histogram sums the duration of every pitch of every event per pitch
// class.
func Histogram(score *model.Score) []float64 {
	hist := make([]float64, 12)
	for _, v := range score.Voices {
		for _, e := range v.Events {
			if e.Duration <= 0 {
				continue
			}
			for _, p := range e.Pitches {
				hist[p.PitchClass()] += e.Duration
			}
		}
	}
	return hist
}

// rotate moves a profile so that its tonic lands on pitch class tonic.
func rotate(profile []float64, tonic int) []float64 {
	res := make([]float64, 12)
	for pc := range res {
		res[pc] = profile[(pc-tonic+12)%12]
	}
	return res
}

func Detect(score *model.Score) (model.Key, Result, error) {
	hist := Histogram(score)
	if floats.Sum(hist) == 0 {
		return model.Key{}, Result{Histogram: hist}, ErrNoPitches
	}

	candidates := make([]Candidate, 0, 24)
	for tonic := 0; tonic < 12; tonic++ {
		for _, mode := range []model.Mode{model.Major, model.Minor} {
			profile := majorProfile
			if mode == model.Minor {
				profile = minorProfile
			}
			r := stat.Correlation(hist, rotate(profile, tonic), nil)
			// a flat histogram has no variance
			if math.IsNaN(r) {
				r = 0
			}
			candidates = append(candidates, Candidate{
				Key:         model.Key{Tonic: tonic, Mode: mode},
				Correlation: r,
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Correlation > candidates[j].Correlation
	})

	return candidates[0].Key, Result{Histogram: hist, Candidates: candidates}, nil
}
