// Package sample cuts short MIDI excerpts out of a file so a finding can
// be listened to in context.
package sample

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/midi"
	"github.com/jsphweid/harmonycheck/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type heldNote struct {
	channel uint8
	key     uint8
}

func isEndOfTrack(m smf.Message) bool {
	return len(m) >= 2 && m[0] == 0xFF && m[1] == 0x2F
}

// Create copies the window [fromTick, toTick) of every track into a new
// file. Meta and controller events before the window are moved to its
// start so tempo and programs still apply; notes still sounding at toTick
// are closed there.
func Create(mf *smf.SMF, fromTick, toTick int64) *smf.SMF {
	res := smf.New()
	res.TimeFormat = mf.TimeFormat

	for _, track := range mf.Tracks {
		var newTrack smf.Track
		var absTicks, last int64
		open := make(map[heldNote]int)

		add := func(at int64, msg smf.Message) {
			newTrack = append(newTrack, smf.Event{Delta: uint32(at - last), Message: msg})
			last = at
		}

		for _, evt := range track {
			absTicks += int64(evt.Delta)
			if absTicks >= toTick {
				break
			}
			if isEndOfTrack(evt.Message) {
				continue
			}
			at := absTicks - fromTick
			if at < 0 {
				at = 0
			}

			msg := gomidi.Message(evt.Message)
			var channel, key, velocity uint8
			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				if absTicks < fromTick {
					continue
				}
				open[heldNote{channel, key}]++
				add(at, evt.Message)
			case msg.GetNoteEnd(&channel, &key):
				n := heldNote{channel, key}
				if open[n] == 0 {
					continue
				}
				open[n]--
				add(at, evt.Message)
			default:
				add(at, evt.Message)
			}
		}

		end := toTick - fromTick
		for n, count := range open {
			for ; count > 0; count-- {
				add(end, smf.Message(gomidi.NoteOff(n.channel, n.key)))
			}
		}
		newTrack.Close(uint32(end - last))
		res.Tracks = append(res.Tracks, newTrack)
	}

	return res
}

// Window returns the tick range of a measure of score, which must have
// been parsed from mf.
func Window(mf *smf.SMF, score *model.Score, measure int) (int64, int64, error) {
	if measure < 1 {
		return 0, 0, fmt.Errorf("invalid measure %d", measure)
	}
	tpq, err := midi.TicksPerQuarter(mf)
	if err != nil {
		return 0, 0, err
	}
	length := int64(score.TimeSignature.MeasureLength() * tpq)
	from := int64(measure-1) * length
	return from, from + length, nil
}

// ForMeasure is Create for one measure.
func ForMeasure(mf *smf.SMF, score *model.Score, measure int) (*smf.SMF, error) {
	from, to, err := Window(mf, score, measure)
	if err != nil {
		return nil, err
	}
	return Create(mf, from, to), nil
}
