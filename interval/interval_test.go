package interval

import (
	"fmt"
	"testing"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPitch(t *testing.T, name string) model.Pitch {
	p, err := model.ParsePitch(name)
	require.NoError(t, err)
	return p
}

func TestSemitoneTable(t *testing.T) {
	cases := []struct {
		semitones int
		name      string
		quality   Quality
	}{
		{0, "P1", Perfect},
		{1, "m2", Minor},
		{2, "M2", Major},
		{3, "m3", Minor},
		{4, "M3", Major},
		{5, "P4", Perfect},
		{6, "A4", Augmented},
		{7, "P5", Perfect},
		{8, "m6", Minor},
		{9, "M6", Major},
		{10, "m7", Minor},
		{11, "M7", Major},
		{12, "P8", Perfect},
		{19, "P5", Perfect},
		{24, "P8", Perfect},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%d semitones", c.semitones), func(t *testing.T) {
			info := Between(model.NewPitch(60), model.NewPitch(60+c.semitones))
			assert := assert.New(t)
			assert.Equal(c.name, info.SimpleName)
			assert.Equal(c.quality, info.Quality)
			assert.Equal(c.semitones, info.Semitones)
		})
	}
}

func TestAntisymmetricSemitonesSymmetricName(t *testing.T) {
	assert := assert.New(t)
	for a := 40; a < 85; a += 3 {
		for b := 38; b < 90; b += 5 {
			pa, pb := model.NewPitch(a), model.NewPitch(b)
			forward, backward := Between(pa, pb), Between(pb, pa)
			assert.Equal(forward.Semitones, -backward.Semitones)
			assert.Equal(forward.SimpleName, backward.SimpleName)
			assert.Equal(forward.Direction, -backward.Direction)
		}
	}
}

func TestSpelledNames(t *testing.T) {
	cases := []struct {
		low, high string
		name      string
	}{
		{"B3", "F4", "d5"},
		{"F4", "B4", "A4"},
		{"C4", "G#4", "A5"},
		{"C4", "Ab4", "m6"},
		{"C4", "C#4", "A1"},
		{"E4", "Eb5", "d8"},
		{"C4", "G5", "P5"},
		{"D4", "C5", "m7"},
	}

	for _, c := range cases {
		t.Run(c.low+"-"+c.high, func(t *testing.T) {
			low, high := mustPitch(t, c.low), mustPitch(t, c.high)
			assert.Equal(t, c.name, Between(low, high).SimpleName)
			assert.Equal(t, c.name, Between(high, low).SimpleName)
		})
	}
}

func TestEnharmonicUnisonIsSymmetric(t *testing.T) {
	c, bSharp := mustPitch(t, "C4"), mustPitch(t, "B#3")
	assert.Equal(t, Between(c, bSharp).SimpleName, Between(bSharp, c).SimpleName)
	assert.Equal(t, 0, Between(c, bSharp).Semitones)
}

func TestDirection(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(1, Between(model.NewPitch(60), model.NewPitch(67)).Direction)
	assert.Equal(-1, Between(model.NewPitch(67), model.NewPitch(60)).Direction)
	assert.Equal(0, Between(model.NewPitch(60), model.NewPitch(60)).Direction)
	assert.Equal(7, Between(model.NewPitch(67), model.NewPitch(60)).Size())
	assert.Equal(-1, Motion(model.NewPitch(62), model.NewPitch(60)))
}
