package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// semitones above C for each natural letter
var letterOffsets = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// Pitch is an absolute chromatic position (MIDI numbering, C4 = 60) plus
// a display name. Spelled is true when the name came from the source
// (a score that spells B-F as a diminished fifth) rather than NewPitch.
type Pitch struct {
	Value   int
	Name    string
	Spelled bool
}

func NewPitch(value int) Pitch {
	return Pitch{Value: value, Name: PitchClassName(value) + strconv.Itoa(floorDiv(value, 12)-1)}
}

// ParsePitch reads names like "C4", "F#3", "Bb-1" or "Cbb5".
func ParsePitch(name string) (Pitch, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return Pitch{}, fmt.Errorf("empty pitch name")
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 32
	}
	offset, ok := letterOffsets[letter]
	if !ok {
		return Pitch{}, fmt.Errorf("invalid pitch letter in %q", name)
	}

	i := 1
	for ; i < len(s); i++ {
		switch s[i] {
		case '#':
			offset++
			continue
		case 'b':
			offset--
			continue
		}
		break
	}

	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid octave in %q", name)
	}

	return Pitch{Value: (octave+1)*12 + offset, Name: string(letter) + s[1:], Spelled: true}, nil
}

func (p Pitch) PitchClass() int {
	return floorMod(p.Value, 12)
}

// Letter returns the diatonic letter index (C=0 .. B=6) and octave of a
// spelled pitch, or false when the pitch carries no usable spelling.
func (p Pitch) Letter() (int, int, bool) {
	if !p.Spelled || p.Name == "" {
		return 0, 0, false
	}
	parsed, err := ParsePitch(p.Name)
	if err != nil || parsed.Value != p.Value {
		return 0, 0, false
	}
	idx := strings.IndexByte("CDEFGAB", parsed.Name[0])
	i := 1
	for i < len(parsed.Name) && (parsed.Name[i] == '#' || parsed.Name[i] == 'b') {
		i++
	}
	octave, _ := strconv.Atoi(parsed.Name[i:])
	return idx, octave, true
}

func (p Pitch) String() string {
	if p.Name != "" {
		return p.Name
	}
	return NewPitch(p.Value).Name
}

func (p Pitch) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a name ("F#4") or a bare MIDI number.
func (p *Pitch) UnmarshalJSON(data []byte) error {
	var num int
	if err := json.Unmarshal(data, &num); err == nil {
		*p = NewPitch(num)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("pitch must be a name or a number: %s", string(data))
	}
	parsed, err := ParsePitch(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func PitchClassName(value int) string {
	return sharpNames[floorMod(value, 12)]
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func floorDiv(a, b int) int {
	d := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		d--
	}
	return d
}
