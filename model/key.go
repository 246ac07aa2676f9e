package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Mode int

const (
	Major Mode = iota
	Minor
)

func (m Mode) String() string {
	if m == Minor {
		return "minor"
	}
	return "major"
}

var (
	majorSteps = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorSteps = [7]int{0, 2, 3, 5, 7, 8, 10}
)

// Key is a tonic pitch class (0 = C) and a mode.
type Key struct {
	Tonic int  `json:"tonic"`
	Mode  Mode `json:"mode"`
}

// Degree returns the 1-based scale degree of a pitch class, or 0 when the
// pitch class is chromatic in this key. In minor the raised 6th and 7th
// count as degrees 6 and 7.
func (k Key) Degree(pitchClass int) int {
	rel := floorMod(pitchClass-k.Tonic, 12)
	steps := majorSteps
	if k.Mode == Minor {
		steps = minorSteps
		switch rel {
		case 9:
			return 6
		case 11:
			return 7
		}
	}
	for i, step := range steps {
		if step == rel {
			return i + 1
		}
	}
	return 0
}

// PitchClassOf returns the pitch class of a 1-based scale degree.
func (k Key) PitchClassOf(degree int) int {
	steps := majorSteps
	if k.Mode == Minor {
		steps = minorSteps
	}
	return floorMod(k.Tonic+steps[floorMod(degree-1, 7)], 12)
}

// LeadingTone is the pitch class a semitone below the tonic, the raised
// 7th in minor.
func (k Key) LeadingTone() int {
	return floorMod(k.Tonic-1, 12)
}

func (k Key) String() string {
	return PitchClassName(k.Tonic) + " " + k.Mode.String()
}

// ParseKey reads "C major", "f# minor" or "Bb".
func ParseKey(s string) (Key, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Key{}, fmt.Errorf("invalid key %q", s)
	}
	tonic, err := ParsePitch(fields[0] + "4")
	if err != nil {
		return Key{}, fmt.Errorf("invalid key tonic %q: %w", fields[0], err)
	}
	k := Key{Tonic: tonic.PitchClass(), Mode: Major}
	if len(fields) == 2 {
		switch strings.ToLower(fields[1]) {
		case "major", "maj":
		case "minor", "min":
			k.Mode = Minor
		default:
			return Key{}, fmt.Errorf("invalid key mode %q", fields[1])
		}
	}
	return k, nil
}

func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Key) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("key must be a string like \"C major\": %w", err)
	}
	parsed, err := ParseKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
