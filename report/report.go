// Package report aggregates findings into an AnalysisReport. Nothing
// here mutates its input, so a report can be rebuilt any number of times
// from the same findings.
package report

import (
	"fmt"
	"sort"

	"github.com/jsphweid/harmonycheck/model"
)

const fallbackSuggestion = "Review and revise this section"

var suggestions = map[model.FindingType]string{
	model.ParallelFifths:        "Use contrary or oblique motion between voices",
	model.ParallelOctaves:       "Use contrary or oblique motion between voices",
	model.HiddenPerfectInterval: "Approach the perfect interval by step in the upper voice or by contrary motion",
	model.VoiceCrossing:         "Keep each voice above the voice below it",
	model.VoiceSpacing:          "Keep adjacent upper voices within an octave",
	model.LargeLeap:             "Consider using stepwise motion or smaller intervals",
	model.ConsecutiveLeaps:      "Follow a leap with stepwise motion in the opposite direction",
	model.MelodicInterval:       "Avoid augmented and dissonant melodic intervals",
	model.VoiceRange:            "Keep the voice within its traditional range",
	model.WeakProgression:       "Consider using stronger chord progressions like V-I",
	model.DissonantHarmony:      "Prepare and resolve dissonant tones",
	model.IncompleteChord:       "Include the root, third and fifth where possible",
	model.StaticHarmony:         "Vary the harmony more often",
	model.RapidHarmonicRhythm:   "Slow down the rate of chord changes",
	model.DoubledLeadingTone:    "Do not double the leading tone; resolve it up to the tonic",
	model.Cadence:               "End the phrase with an authentic cadence (V-I)",
}

// Suggestion returns the correction text for a finding type.
func Suggestion(t model.FindingType) string {
	if s, ok := suggestions[t]; ok {
		return s
	}
	return fallbackSuggestion
}

// CountBySeverity puts every finding in one of the three buckets. A
// severity outside them means an analyzer is broken, so it panics.
func CountBySeverity(findings []model.Finding) model.SeverityCounts {
	var counts model.SeverityCounts
	for _, f := range findings {
		switch f.Severity {
		case model.High:
			counts.High++
		case model.Medium:
			counts.Medium++
		case model.Low:
			counts.Low++
		default:
			panic(fmt.Sprintf("finding %q at measure %d has invalid severity %d", f.Type, f.Measure, int(f.Severity)))
		}
	}
	return counts
}

func CountByType(findings []model.Finding) map[model.FindingType]int {
	res := make(map[model.FindingType]int)
	for _, f := range findings {
		res[f.Type]++
	}
	return res
}

// CommonProblems ranks the finding types that occur more than once by
// count, then by the highest severity seen for the type.
func CommonProblems(findings []model.Finding) []model.Problem {
	byType := make(map[model.FindingType]*model.Problem)
	for _, f := range findings {
		p, ok := byType[f.Type]
		if !ok {
			p = &model.Problem{Type: f.Type}
			byType[f.Type] = p
		}
		p.Count++
		if f.Severity > p.Severity {
			p.Severity = f.Severity
		}
	}

	res := make([]model.Problem, 0)
	for _, p := range byType {
		if p.Count > 1 {
			res = append(res, *p)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		if res[i].Severity != res[j].Severity {
			return res[i].Severity.Weight() > res[j].Severity.Weight()
		}
		return res[i].Type < res[j].Type
	})
	return res
}

// Sorted returns a copy ordered by measure, then severity (high first),
// then type.
func Sorted(findings []model.Finding) []model.Finding {
	res := make([]model.Finding, len(findings))
	copy(res, findings)
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.Measure != b.Measure {
			return a.Measure < b.Measure
		}
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		return a.Type < b.Type
	})
	return res
}

func Corrections(findings []model.Finding) []model.Correction {
	res := make([]model.Correction, 0, len(findings))
	for _, f := range findings {
		res = append(res, model.Correction{Finding: f, Suggestion: Suggestion(f.Type)})
	}
	return res
}

// Build aggregates findings into a report. stats is copied in as is.
func Build(findings []model.Finding, stats model.Statistics) model.AnalysisReport {
	sorted := Sorted(findings)
	return model.AnalysisReport{
		TotalErrors:      len(findings),
		ErrorsBySeverity: CountBySeverity(findings),
		ErrorsByType:     CountByType(findings),
		CommonProblems:   CommonProblems(findings),
		Corrections:      Corrections(sorted),
		Findings:         sorted,
		Statistics:       stats,
	}
}
