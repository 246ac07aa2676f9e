package midi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/harmonycheck/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const drumChannel = 9

type noteKey struct {
	channel uint8
	key     uint8
}

type rawNote struct {
	start, end int64
	key        uint8
}

// Info is the file level metadata shown by inspect.
type Info struct {
	Tracks          int
	TicksPerQuarter float64
	Tempo           float64
	TimeSignature   model.TimeSignature
	Key             *model.Key
	LengthTicks     int64
}

// Describe reads the first tempo, time signature and key signature of the
// file. Defaults are 120 bpm and 4/4.
func Describe(mf *smf.SMF) Info {
	info := Info{Tracks: len(mf.Tracks), Tempo: 120, TimeSignature: model.CommonTime}
	info.TicksPerQuarter, _ = TicksPerQuarter(mf)

	var haveTempo, haveMeter bool
	for _, track := range mf.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var bpm float64
			var num, denom uint8
			switch {
			case !haveTempo && event.Message.GetMetaTempo(&bpm):
				info.Tempo, haveTempo = bpm, true
			case !haveMeter && event.Message.GetMetaMeter(&num, &denom):
				info.TimeSignature = model.TimeSignature{Numerator: int(num), Denominator: int(denom)}
				haveMeter = true
			case info.Key == nil:
				if k, ok := keySignature(event.Message); ok {
					info.Key = &k
				}
			}
		}
		if absTicks > info.LengthTicks {
			info.LengthTicks = absTicks
		}
	}
	return info
}

// keySignature decodes a key signature meta event: sharps (negative for
// flats) and a mode byte, 0 major and 1 minor.
func keySignature(m smf.Message) (model.Key, bool) {
	if len(m) < 4 || m[0] != 0xFF || m[1] != 0x59 {
		return model.Key{}, false
	}
	sharps := int(int8(m[len(m)-2]))
	major := (sharps*7%12 + 12) % 12
	if m[len(m)-1] == 1 {
		return model.Key{Tonic: (major + 9) % 12, Mode: model.Minor}, true
	}
	return model.Key{Tonic: major, Mode: model.Major}, true
}

// trackNotes pairs note starts with note ends in one track. A note still
// held when the track ends is closed there.
func trackNotes(track smf.Track) ([]rawNote, string) {
	var notes []rawNote
	var name string
	open := make(map[noteKey][]int64)

	var absTicks int64
	for _, event := range track {
		absTicks += int64(event.Delta)
		msg := gomidi.Message(event.Message)

		var channel, key, velocity uint8
		var text string
		switch {
		case msg.GetNoteStart(&channel, &key, &velocity):
			if channel == drumChannel {
				continue
			}
			nk := noteKey{channel, key}
			open[nk] = append(open[nk], absTicks)
		case msg.GetNoteEnd(&channel, &key):
			nk := noteKey{channel, key}
			starts := open[nk]
			if len(starts) == 0 {
				continue
			}
			notes = append(notes, rawNote{start: starts[0], end: absTicks, key: key})
			open[nk] = starts[1:]
		case name == "" && event.Message.GetMetaTrackName(&text):
			name = text
		}
	}

	for nk, starts := range open {
		for _, start := range starts {
			notes = append(notes, rawNote{start: start, end: absTicks, key: nk.key})
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].start != notes[j].start {
			return notes[i].start < notes[j].start
		}
		return notes[i].key < notes[j].key
	})
	return notes, name
}

// ToScore turns every track with notes into a voice. Notes of one track
// starting on the same tick form a chord event. Voices are ordered by
// mean pitch, highest first.
func ToScore(mf *smf.SMF) (*model.Score, error) {
	tpq, err := TicksPerQuarter(mf)
	if err != nil {
		return nil, err
	}
	info := Describe(mf)
	measureLen := info.TimeSignature.MeasureLength()

	score := &model.Score{TimeSignature: info.TimeSignature, Key: info.Key}
	type ranked struct {
		voice model.Voice
		mean  float64
	}
	var voices []ranked

	for i, track := range mf.Tracks {
		notes, name := trackNotes(track)
		if len(notes) == 0 {
			continue
		}
		if name == "" {
			name = fmt.Sprintf("Track %d", i+1)
		}
		v := model.Voice{Name: name}

		var total float64
		for j := 0; j < len(notes); {
			start := notes[j].start
			end := notes[j].end
			var pitches []model.Pitch
			for ; j < len(notes) && notes[j].start == start; j++ {
				pitches = append(pitches, model.NewPitch(int(notes[j].key)))
				total += float64(notes[j].key)
				if notes[j].end > end {
					end = notes[j].end
				}
			}
			if end <= start {
				continue
			}

			offset := float64(start) / tpq
			duration := float64(end-start) / tpq
			measure := int(math.Floor(offset/measureLen)) + 1
			if len(pitches) == 1 {
				v.Events = append(v.Events, model.NewNote(pitches[0], offset, duration, measure))
			} else {
				v.Events = append(v.Events, model.NewChord(pitches, offset, duration, measure))
			}
		}
		if len(v.Events) == 0 {
			continue
		}
		voices = append(voices, ranked{voice: v, mean: total / float64(len(notes))})
	}

	if len(voices) == 0 {
		return nil, ErrNoNotes
	}
	sort.SliceStable(voices, func(i, j int) bool {
		return voices[i].mean > voices[j].mean
	})
	for _, r := range voices {
		score.Voices = append(score.Voices, r.voice)
	}
	return score, nil
}

// ReadScoreJSON decodes the JSON score format. Missing measure numbers
// are computed from offsets.
func ReadScoreJSON(r io.Reader) (*model.Score, error) {
	var score model.Score
	if err := json.NewDecoder(r).Decode(&score); err != nil {
		return nil, fmt.Errorf("error decoding score: %w", err)
	}
	if score.TimeSignature.Numerator <= 0 || score.TimeSignature.Denominator <= 0 {
		score.TimeSignature = model.CommonTime
	}
	measureLen := score.TimeSignature.MeasureLength()
	for i := range score.Voices {
		events := score.Voices[i].Events
		for j := range events {
			if len(events[j].Pitches) > 1 {
				events[j].Kind = model.ChordKind
			}
			if events[j].Measure <= 0 {
				events[j].Measure = int(math.Floor(events[j].Offset/measureLen)) + 1
			}
		}
		sort.SliceStable(events, func(a, b int) bool {
			return events[a].Offset < events[b].Offset
		})
	}
	return &score, nil
}

// Load reads a score from a .mid, .midi or .json file and returns the raw
// bytes along with it.
func Load(path string) (*model.Score, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	score, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, data, fmt.Errorf("%s: %w", path, err)
	}
	if score.Title == "" {
		score.Title = filepath.Base(path)
	}
	return score, data, nil
}

// Format names the decoder Parse uses for an extension or content type:
// "json" when the hint mentions json, "midi" otherwise.
func Format(hint string) string {
	if strings.Contains(strings.ToLower(hint), "json") {
		return "json"
	}
	return "midi"
}

// Parse picks the decoder by extension or content type.
func Parse(data []byte, format string) (*model.Score, error) {
	if Format(format) == "json" {
		return ReadScoreJSON(bytes.NewReader(data))
	}
	mf, err := ReadMidi(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ToScore(mf)
}
