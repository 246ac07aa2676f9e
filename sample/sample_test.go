package sample

import (
	"testing"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type note struct {
	at  int64
	on  bool
	key uint8
}

func notes(track smf.Track) []note {
	var res []note
	var abs int64
	for _, evt := range track {
		abs += int64(evt.Delta)
		msg := gomidi.Message(evt.Message)
		var channel, key, velocity uint8
		switch {
		case msg.GetNoteStart(&channel, &key, &velocity):
			res = append(res, note{abs, true, key})
		case msg.GetNoteEnd(&channel, &key):
			res = append(res, note{abs, false, key})
		}
	}
	return res
}

// four quarter notes at 480 ticks per quarter, the third held into the
// next measure
func source() *smf.SMF {
	mf := smf.New()
	mf.TimeFormat = smf.MetricTicks(480)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(90))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(480, gomidi.NoteOff(0, 60))
	tr.Add(0, gomidi.NoteOn(0, 62, 100))
	tr.Add(480, gomidi.NoteOff(0, 62))
	tr.Add(960, gomidi.NoteOn(0, 64, 100))
	tr.Add(960, gomidi.NoteOff(0, 64))
	tr.Add(0, gomidi.NoteOn(0, 65, 100))
	tr.Add(480, gomidi.NoteOff(0, 65))
	tr.Close(0)
	mf.Tracks = append(mf.Tracks, tr)
	return mf
}

func TestCreate(t *testing.T) {
	excerpt := Create(source(), 960, 2880)
	require.Len(t, excerpt.Tracks, 1)

	got := notes(excerpt.Tracks[0])
	assert.Equal(t, []note{
		{960, true, 64},
		{1920, false, 64},
	}, got)

	var bpm float64
	assert.True(t, excerpt.Tracks[0][0].Message.GetMetaTempo(&bpm))
	assert.InDelta(t, 90.0, bpm, 0.01)
}

func TestCreateClosesHangingNotes(t *testing.T) {
	excerpt := Create(source(), 0, 1920)
	assert.Equal(t, []note{
		{0, true, 60},
		{480, false, 60},
		{480, true, 62},
		{960, false, 62},
	}, notes(excerpt.Tracks[0]))

	excerpt = Create(source(), 0, 2400)
	got := notes(excerpt.Tracks[0])
	require.Len(t, got, 6)
	assert.Equal(t, note{2400, false, 64}, got[5])
}

func TestWindow(t *testing.T) {
	score := &model.Score{TimeSignature: model.TimeSignature{Numerator: 3, Denominator: 4}}

	from, to, err := Window(source(), score, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1440), from)
	assert.Equal(t, int64(2880), to)

	_, _, err = Window(source(), score, 0)
	assert.Error(t, err)
}
