package model

// Voice is one performer's line. Events are ordered by offset.
type Voice struct {
	Name   string      `json:"name,omitempty"`
	Events []NoteEvent `json:"events"`
}

type TimeSignature struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

var CommonTime = TimeSignature{Numerator: 4, Denominator: 4}

// MeasureLength is the length of one measure in quarter notes.
func (ts TimeSignature) MeasureLength() float64 {
	if ts.Numerator <= 0 || ts.Denominator <= 0 {
		return CommonTime.MeasureLength()
	}
	return float64(ts.Numerator) * 4 / float64(ts.Denominator)
}

// Score is the root aggregate handed to the analyzers. Voices are ordered
// by register, highest first. Analyzers never modify a score.
type Score struct {
	Title         string        `json:"title,omitempty"`
	Voices        []Voice       `json:"voices"`
	Key           *Key          `json:"key,omitempty"`
	MeasureCount  int           `json:"measure_count,omitempty"`
	TimeSignature TimeSignature `json:"time_signature"`
}

// Measures returns MeasureCount, or the highest measure number found in the
// voices when the parser did not set it.
func (s *Score) Measures() int {
	if s.MeasureCount > 0 {
		return s.MeasureCount
	}
	var highest int
	for _, v := range s.Voices {
		for _, e := range v.Events {
			if e.Measure > highest {
				highest = e.Measure
			}
		}
	}
	return highest
}
