package keys

import (
	"testing"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/scoretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func halves(values ...int) model.Voice {
	var v model.Voice
	for i, value := range values {
		v.Events = append(v.Events, model.NewNote(model.NewPitch(value), float64(2*i), 2, i/2+1))
	}
	return v
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		score    *model.Score
		expected string
	}{
		{
			name: "c major",
			score: scoretest.Score(
				scoretest.Voice(60, 62, 64, 65, 67, 69, 71, 72),
				halves(48, 52, 43, 48),
			),
			expected: "C major",
		},
		{
			name: "a minor",
			score: scoretest.Score(
				scoretest.Voice(69, 72, 76, 72, 71, 69, 65, 64),
				halves(57, 53, 52, 45),
			),
			expected: "A minor",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key, result, err := Detect(test.score)
			require.NoError(t, err)

			assert := assert.New(t)
			assert.Equal(test.expected, key.String())
			assert.Len(result.Candidates, 24)
			assert.Equal(key, result.Candidates[0].Key)
			assert.GreaterOrEqual(result.Candidates[0].Correlation, result.Candidates[1].Correlation)
		})
	}
}

func TestHistogramWeightsByDuration(t *testing.T) {
	score := scoretest.Score(halves(60), scoretest.Voice(64, 67))
	hist := Histogram(score)

	assert := assert.New(t)
	assert.Equal(2.0, hist[0])
	assert.Equal(1.0, hist[4])
	assert.Equal(1.0, hist[7])
}

func TestDetectWithoutPitches(t *testing.T) {
	score := scoretest.Score(model.Voice{}, model.Voice{})
	_, _, err := Detect(score)
	assert.ErrorIs(t, err, ErrNoPitches)
}

func TestRotate(t *testing.T) {
	g := rotate(majorProfile, 7)
	assert.Equal(t, majorProfile[0], g[7])
	assert.Equal(t, majorProfile[7], g[2])
}
