package motion

import (
	"testing"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/scoretest"
	"github.com/stretchr/testify/assert"
)

func ofType(findings []model.Finding, t model.FindingType) []model.Finding {
	var res []model.Finding
	for _, f := range findings {
		if f.Type == t {
			res = append(res, f)
		}
	}
	return res
}

func TestParallelFifthsInSimilarMotion(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(67, 69),
		scoretest.Voice(60, 62),
	)
	findings, skipped := Check(score)

	assert := assert.New(t)
	assert.Empty(skipped)
	assert.Len(findings, 1)
	fifths := ofType(findings, model.ParallelFifths)
	assert.Len(fifths, 1)
	assert.Equal(1, fifths[0].Measure)
	assert.Equal(model.High, fifths[0].Severity)
	assert.Equal(1, fifths[0].Voice1)
	assert.Equal(2, fifths[0].Voice2)
}

func TestFifthsInContraryMotionAreFine(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(67, 74),
		scoretest.Voice(60, 55),
	)
	findings, _ := Check(score)
	assert.Empty(t, ofType(findings, model.ParallelFifths))
}

func TestParallelFifthMeasureComesFromFirstPosition(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(72, 71, 72, 71, 67, 69),
		scoretest.Voice(64, 62, 64, 62, 60, 62),
	)
	fifths := ofType(mustCheck(score), model.ParallelFifths)

	assert := assert.New(t)
	assert.Len(fifths, 1)
	assert.Equal(2, fifths[0].Measure)
}

func TestParallelOctaves(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(72, 74),
		scoretest.Voice(60, 62),
	)
	octaves := ofType(mustCheck(score), model.ParallelOctaves)

	assert := assert.New(t)
	assert.Len(octaves, 1)
	assert.Equal("Parallel octave movement between voices 1 and 2", octaves[0].Description)
}

func TestRepeatedFifthIsNotParallel(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(67, 67),
		scoretest.Voice(60, 60),
	)
	assert.Empty(t, mustCheck(score))
}

func TestHiddenFifthInOuterVoices(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(72, 79),
		scoretest.Voice(67, 67),
		scoretest.Voice(60, 72),
	)
	hidden := ofType(mustCheck(score), model.HiddenPerfectInterval)

	assert := assert.New(t)
	assert.Len(hidden, 1)
	assert.Equal(model.Low, hidden[0].Severity)
	assert.Equal(1, hidden[0].Voice1)
	assert.Equal(3, hidden[0].Voice2)
	assert.Equal("Hidden P5 between outer voices", hidden[0].Description)
}

func TestHiddenIntervalNeedsALeap(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(65, 67),
		scoretest.Voice(53, 60),
	)
	assert.Empty(t, ofType(mustCheck(score), model.HiddenPerfectInterval))
}

func TestVoiceCrossing(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(60, 67),
		scoretest.Voice(64, 64),
	)
	crossings := ofType(mustCheck(score), model.VoiceCrossing)

	assert := assert.New(t)
	assert.Len(crossings, 1)
	assert.Equal(model.Medium, crossings[0].Severity)
	assert.Equal("Voice 1 crosses below voice 2", crossings[0].Description)
}

func TestVoiceSpacing(t *testing.T) {
	score := scoretest.Score(
		scoretest.Voice(79),
		scoretest.Voice(64),
		scoretest.Voice(48),
	)
	spacing := ofType(mustCheck(score), model.VoiceSpacing)

	assert := assert.New(t)
	assert.Len(spacing, 2)
	assert.Equal(model.Medium, spacing[0].Severity)
	assert.Equal(2, spacing[0].Voice2)
	assert.Equal(model.Low, spacing[1].Severity)
	assert.Equal(3, spacing[1].Voice2)
}

func TestChordEventsUseLowestPitch(t *testing.T) {
	score := scoretest.Score(
		scoretest.Chords([]int{67, 72}, []int{69, 74}),
		scoretest.Voice(60, 62),
	)
	assert.Len(t, ofType(mustCheck(score), model.ParallelFifths), 1)
}

func TestEmptyEventIsSkippedNotFatal(t *testing.T) {
	upper := scoretest.Voice(67, 69, 71)
	upper.Events[1] = model.NoteEvent{Kind: model.ChordKind, Offset: 1, Duration: 1, Measure: 1}
	score := scoretest.Score(upper, scoretest.Voice(60, 62, 64))

	findings, skipped := Check(score)

	assert := assert.New(t)
	assert.Len(skipped, 1)
	assert.Equal("motion", skipped[0].Analyzer)
	assert.Empty(ofType(findings, model.ParallelFifths))
}

func mustCheck(score *model.Score) []model.Finding {
	findings, _ := Check(score)
	return findings
}
