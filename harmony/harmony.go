// Package harmony walks the harmonic reduction of a score and checks the
// chords themselves and how they follow each other.
package harmony

import (
	"fmt"
	"strings"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/model"
)

const (
	staticLimit       = 4.0
	rapidGap          = 1.0
	maxRapidChanges   = 3
	minCompleteChord  = 3
	minVoicesForCheck = 3
)

// interval classes (mod 12) that make a chord dissonant
var dissonances = map[int]struct {
	name     string
	severity model.Severity
}{
	1:  {"m2", model.High},
	11: {"M7", model.High},
	6:  {"tritone", model.High},
	2:  {"M2", model.Medium},
	10: {"m7", model.Medium},
}

// Analyzer holds what the progression rules need besides the chords. Key
// may be nil, in which case the key dependent rules are skipped.
type Analyzer struct {
	Key  *model.Key
	Root chord.RootFinder
}

func New(key *model.Key, root chord.RootFinder) *Analyzer {
	if root == nil {
		root = chord.TertianRoot
	}
	return &Analyzer{Key: key, Root: root}
}

func (a *Analyzer) Check(chords []model.Chord) ([]model.Finding, []model.SkippedEvent) {
	var findings []model.Finding
	var skipped []model.SkippedEvent

	for _, c := range chords {
		if f, ok := dissonance(c); ok {
			findings = append(findings, f)
		}
		if f, ok := incomplete(c); ok {
			findings = append(findings, f)
		}
	}

	findings = append(findings, rhythm(chords)...)

	if a.Key != nil {
		f, s := a.progressions(chords)
		findings = append(findings, f...)
		skipped = append(skipped, s...)
		findings = append(findings, a.doubledLeadingTones(chords)...)
	}
	return findings, skipped
}

func names(notes model.Notes) string {
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, " ")
}

// dissonance flags a chord at most once, at the severity of its harshest
// interval.
func dissonance(c model.Chord) (model.Finding, bool) {
	classes := c.PitchClasses()
	if len(classes) < minCompleteChord {
		return model.Finding{}, false
	}

	var worst string
	var severity model.Severity
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			d, ok := dissonances[classes[j]-classes[i]]
			if ok && d.severity > severity {
				worst, severity = d.name, d.severity
			}
		}
	}
	if severity == 0 {
		return model.Finding{}, false
	}
	return model.Finding{
		Type:        model.DissonantHarmony,
		Measure:     c.Measure,
		Description: fmt.Sprintf("Dissonant chord (%s) contains a %s", names(c.Notes), worst),
		Severity:    severity,
	}, true
}

func incomplete(c model.Chord) (model.Finding, bool) {
	classes := len(c.PitchClasses())
	voices := c.SoundingVoices()
	if classes >= minCompleteChord || voices < minVoicesForCheck {
		return model.Finding{}, false
	}
	return model.Finding{
		Type:        model.IncompleteChord,
		Measure:     c.Measure,
		Description: fmt.Sprintf("Incomplete chord: %d pitch classes across %d voices", classes, voices),
		Severity:    model.Low,
	}, true
}

// rhythm reports a pitch set repeated for too long and chord changes
// coming too fast, each once per run. A single held chord is never static.
func rhythm(chords []model.Chord) []model.Finding {
	var res []model.Finding
	if len(chords) == 0 {
		return res
	}

	// a run is only static once the same pitch set comes back
	held := chords[0].Duration
	staticFlagged := false

	lastChange := chords[0].Offset
	rapid := 0
	rapidFlagged := false

	prevKey := chord.CreateChordKey(chords[0].Notes)
	for _, c := range chords[1:] {
		key := chord.CreateChordKey(c.Notes)
		if key == prevKey {
			held += c.Duration
			if held > staticLimit && !staticFlagged {
				staticFlagged = true
				res = append(res, staticFinding(c))
			}
			continue
		}
		prevKey = key
		held = c.Duration
		staticFlagged = false

		if c.Offset-lastChange < rapidGap {
			rapid++
			if rapid > maxRapidChanges && !rapidFlagged {
				rapidFlagged = true
				res = append(res, model.Finding{
					Type:        model.RapidHarmonicRhythm,
					Measure:     c.Measure,
					Description: "Too many rapid chord changes",
					Severity:    model.Low,
				})
			}
		} else {
			rapid = 0
			rapidFlagged = false
		}
		lastChange = c.Offset
	}
	return res
}

func staticFinding(c model.Chord) model.Finding {
	return model.Finding{
		Type:        model.StaticHarmony,
		Measure:     c.Measure,
		Description: "Static harmony for too long",
		Severity:    model.Low,
	}
}

// progressions looks at root motion between consecutive chords whose
// roots differ.
func (a *Analyzer) progressions(chords []model.Chord) ([]model.Finding, []model.SkippedEvent) {
	var findings []model.Finding
	var skipped []model.SkippedEvent

	prevDegree := 0
	havePrev := false
	for _, c := range chords {
		root, ok := a.Root(c)
		if !ok {
			skipped = append(skipped, model.SkippedEvent{
				Analyzer: "harmony",
				Measure:  c.Measure,
				Reason:   fmt.Sprintf("no root for chord at offset %v", c.Offset),
			})
			continue
		}
		degree := a.Key.Degree(root.PitchClass())
		if havePrev && prevDegree == 5 && degree == 4 {
			findings = append(findings, model.Finding{
				Type:        model.WeakProgression,
				Measure:     c.Measure,
				Description: "V-IV progression (retrograde)",
				Severity:    model.Medium,
			})
		}
		prevDegree, havePrev = degree, true
	}
	return findings, skipped
}

func (a *Analyzer) doubledLeadingTones(chords []model.Chord) []model.Finding {
	var res []model.Finding
	leading := a.Key.LeadingTone()
	flagged := make(map[int]bool)
	for _, c := range chords {
		if flagged[c.Measure] {
			continue
		}
		voices := 0
		for _, notes := range c.VoiceNotes {
			for _, n := range notes {
				if n.PitchClass() == leading {
					voices++
					break
				}
			}
		}
		if voices < 2 {
			continue
		}
		flagged[c.Measure] = true
		res = append(res, model.Finding{
			Type:        model.DoubledLeadingTone,
			Measure:     c.Measure,
			Description: fmt.Sprintf("Leading tone (%s) appears in %d voices", model.PitchClassName(leading), voices),
			Severity:    model.High,
		})
	}
	return res
}
