package melody

import (
	"testing"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/scoretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byType(findings []model.Finding, t model.FindingType, voice int) []model.Finding {
	var res []model.Finding
	for _, f := range findings {
		if f.Type == t && f.Voice1 == voice {
			res = append(res, f)
		}
	}
	return res
}

func spelledVoice(t *testing.T, names ...string) model.Voice {
	var v model.Voice
	for i, name := range names {
		p, err := model.ParsePitch(name)
		require.NoError(t, err)
		v.Events = append(v.Events, model.NewNote(p, float64(i), 1, i/4+1))
	}
	return v
}

func TestSopranoRangeFloor(t *testing.T) {
	tests := []struct {
		pitch    int
		expected int
	}{
		{59, 1},
		{60, 0},
		{79, 0},
		{80, 1},
	}
	for _, test := range tests {
		score := scoretest.Score(scoretest.Voice(test.pitch), scoretest.Voice(57))
		findings, _ := Check(score)
		assert.Len(t, byType(findings, model.VoiceRange, 1), test.expected, "pitch %d", test.pitch)
	}
}

func TestRangeDescriptions(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(59),
		scoretest.Voice(76),
	)
	findings, _ := Check(score)

	assert := assert.New(t)
	soprano := byType(findings, model.VoiceRange, 1)
	alto := byType(findings, model.VoiceRange, 2)
	require.Len(t, soprano, 1)
	require.Len(t, alto, 1)
	assert.Equal("Soprano voice below traditional range", soprano[0].Description)
	assert.Equal("Alto voice above traditional range", alto[0].Description)
	assert.Equal(model.Medium, alto[0].Severity)
}

func TestRangeChecksEveryChordPitch(t *testing.T) {
	score := scoretest.Score(
		scoretest.Chords([]int{55, 58, 62}),
		scoretest.Voice(57),
	)
	findings, _ := Check(score)
	assert.Len(t, byType(findings, model.VoiceRange, 1), 2)
}

func TestVoicesBeyondFourAreNotRangeChecked(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(72),
		scoretest.Voice(64),
		scoretest.Voice(55),
		scoretest.Voice(48),
		scoretest.Voice(20),
	)
	findings, _ := Check(score)
	assert.Empty(t, byType(findings, model.VoiceRange, 5))
}

func TestLargeLeap(t *testing.T) {
	score := scoretest.Score(scoretest.Voice(60, 74), scoretest.Voice(57, 57))
	findings, _ := Check(score)
	leaps := byType(findings, model.LargeLeap, 1)

	assert := assert.New(t)
	require.Len(t, leaps, 1)
	assert.Equal("Large melodic leap of 14 semitones in voice 1", leaps[0].Description)
	assert.Equal(model.Medium, leaps[0].Severity)
	assert.Equal(1, leaps[0].Measure)
}

func TestConsecutiveLeaps(t *testing.T) {
	tests := []struct {
		name     string
		line     []int
		expected int
	}{
		{"three leaps", []int{60, 65, 72, 77}, 1},
		{"step resets", []int{60, 65, 67, 72, 77}, 0},
		{"steps only", []int{60, 62, 64, 65, 67}, 0},
		{"thirds are not leaps", []int{60, 64, 67, 71}, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			score := scoretest.Score(scoretest.Voice(test.line...), scoretest.Voice(57))
			findings, _ := Check(score)
			assert.Len(t, byType(findings, model.ConsecutiveLeaps, 1), test.expected)
		})
	}
}

func TestMelodicIntervals(t *testing.T) {
	t.Run("unspelled tritone is augmented", func(t *testing.T) {
		score := scoretest.Score(scoretest.Voice(60, 66), scoretest.Voice(57))
		findings, _ := Check(score)
		intervals := byType(findings, model.MelodicInterval, 1)

		require.Len(t, intervals, 1)
		assert.Equal(t, model.High, intervals[0].Severity)
	})

	t.Run("spelled diminished fifth", func(t *testing.T) {
		score := scoretest.Score(spelledVoice(t, "B4", "F5"), scoretest.Voice(57))
		findings, _ := Check(score)
		intervals := byType(findings, model.MelodicInterval, 1)

		require.Len(t, intervals, 1)
		assert.Equal(t, model.Medium, intervals[0].Severity)
		assert.Equal(t, "Difficult melodic interval (d5) in voice 1", intervals[0].Description)
	})

	t.Run("major seventh", func(t *testing.T) {
		score := scoretest.Score(scoretest.Voice(60, 71), scoretest.Voice(57))
		findings, _ := Check(score)
		intervals := byType(findings, model.MelodicInterval, 1)

		require.Len(t, intervals, 1)
		assert.Equal(t, model.Medium, intervals[0].Severity)
	})

	t.Run("spelled augmented second", func(t *testing.T) {
		score := scoretest.Score(spelledVoice(t, "F4", "G#4"), scoretest.Voice(57))
		findings, _ := Check(score)
		intervals := byType(findings, model.MelodicInterval, 1)

		require.Len(t, intervals, 1)
		assert.Equal(t, model.High, intervals[0].Severity)
	})

	t.Run("minor third is fine", func(t *testing.T) {
		score := scoretest.Score(spelledVoice(t, "F4", "Ab4"), scoretest.Voice(57))
		findings, _ := Check(score)
		assert.Empty(t, byType(findings, model.MelodicInterval, 1))
	})
}

func TestEmptyEventIsSkipped(t *testing.T) {
	v := scoretest.Voice(60, 62, 64)
	v.Events[1] = model.NoteEvent{Kind: model.ChordKind, Offset: 1, Duration: 1, Measure: 1}
	findings, skipped := Check(scoretest.Score(v, scoretest.Voice(57, 57, 57)))

	assert := assert.New(t)
	require.Len(t, skipped, 1)
	assert.Equal("melody", skipped[0].Analyzer)
	assert.Equal(1, skipped[0].Voice)
	assert.Empty(findings)
}
