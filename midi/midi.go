package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoNotes = errors.New("midi file has no playable notes")

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	return ReadMidi(bytes.NewReader(dat))
}

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("error parsing midi file: %v", r)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file: %w", err)
	}
	return res, nil
}

// TicksPerQuarter returns the metric resolution. SMPTE timed files are
// not supported.
func TicksPerQuarter(mf *smf.SMF) (float64, error) {
	mt, ok := mf.TimeFormat.(smf.MetricTicks)
	if !ok || mt.Resolution() == 0 {
		return 0, fmt.Errorf("unsupported midi time format %v", mf.TimeFormat)
	}
	return float64(mt.Resolution()), nil
}
