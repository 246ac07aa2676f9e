package model

import (
	"encoding/json"
	"fmt"
)

type FindingType = string

const (
	ParallelFifths        FindingType = "Parallel Fifths"
	ParallelOctaves       FindingType = "Parallel Octaves"
	HiddenPerfectInterval FindingType = "Hidden Perfect Interval"
	VoiceCrossing         FindingType = "Voice Crossing"
	VoiceSpacing          FindingType = "Voice Spacing"
	LargeLeap             FindingType = "Large Leap"
	ConsecutiveLeaps      FindingType = "Consecutive Leaps"
	MelodicInterval       FindingType = "Melodic Interval"
	VoiceRange            FindingType = "Voice Range"
	WeakProgression       FindingType = "Weak Progression"
	DissonantHarmony      FindingType = "Dissonant Harmony"
	IncompleteChord       FindingType = "Incomplete Chord"
	StaticHarmony         FindingType = "Static Harmony"
	RapidHarmonicRhythm   FindingType = "Rapid Harmonic Rhythm"
	DoubledLeadingTone    FindingType = "Doubled Leading Tone"
	Cadence               FindingType = "Cadence"
)

type Severity int

const (
	Low Severity = iota + 1
	Medium
	High
)

// Weight is used when ranking problems: high=3, medium=2, low=1.
func (s Severity) Weight() int {
	return int(s)
}

func (s Severity) Valid() bool {
	return s >= Low && s <= High
}

func (s Severity) String() string {
	switch s {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Finding is one rule violation. Voice1 and Voice2 are 1-based voice
// numbers, 0 when the rule does not concern a particular voice.
type Finding struct {
	Type        FindingType `json:"type"`
	Measure     int         `json:"measure"`
	Description string      `json:"description"`
	Severity    Severity    `json:"severity"`
	Voice1      int         `json:"voice1,omitempty"`
	Voice2      int         `json:"voice2,omitempty"`
}

// SkippedEvent records an event an analyzer could not evaluate. These are
// logged and counted, never reported as findings.
type SkippedEvent struct {
	Analyzer string
	Voice    int
	Measure  int
	Reason   string
}
