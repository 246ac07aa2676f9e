// Package cadence classifies how a piece ends.
package cadence

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/model"
)

type Kind int

const (
	Unknown Kind = iota
	Authentic
	Plagal
	NonStandard
)

func (k Kind) String() string {
	switch k {
	case Authentic:
		return "authentic"
	case Plagal:
		return "plagal"
	case NonStandard:
		return "non-standard"
	}
	return "unknown"
}

// Classify looks at the root degrees of the last two chords. ok is false
// when either root cannot be found.
func Classify(penultimate, final model.Chord, key model.Key, root chord.RootFinder) (Kind, bool) {
	from, ok := root(penultimate)
	if !ok {
		return Unknown, false
	}
	to, ok := root(final)
	if !ok {
		return Unknown, false
	}

	fromDegree := key.Degree(from.PitchClass())
	toDegree := key.Degree(to.PitchClass())
	switch {
	case fromDegree == 5 && toDegree == 1:
		return Authentic, true
	case fromDegree == 4 && toDegree == 1:
		return Plagal, true
	}
	return NonStandard, true
}

// Check reports at most one Cadence finding. Fewer than two chords or a
// missing key means there is nothing to check.
func Check(chords []model.Chord, key *model.Key, root chord.RootFinder) ([]model.Finding, []model.SkippedEvent) {
	if key == nil || len(chords) < 2 {
		return nil, nil
	}
	if root == nil {
		root = chord.TertianRoot
	}

	penultimate, final := chords[len(chords)-2], chords[len(chords)-1]
	kind, ok := Classify(penultimate, final, *key, root)
	if !ok {
		return nil, []model.SkippedEvent{{
			Analyzer: "cadence",
			Measure:  final.Measure,
			Reason:   fmt.Sprintf("no root for the final chords at offset %v", penultimate.Offset),
		}}
	}

	finding := model.Finding{Type: model.Cadence, Measure: final.Measure}
	switch kind {
	case Authentic:
		if !chord.IsInverted(final, root) {
			return nil, nil
		}
		finding.Description = "Final chord not in root position"
		finding.Severity = model.High
	case Plagal:
		finding.Description = "Plagal cadence - consider authentic cadence instead"
		finding.Severity = model.Medium
	default:
		finding.Description = "Non-standard final cadence"
		finding.Severity = model.High
	}
	return []model.Finding{finding}, nil
}
