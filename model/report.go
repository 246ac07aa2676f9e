package model

import "fmt"

type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type Problem struct {
	Type     FindingType `json:"type"`
	Count    int         `json:"count"`
	Severity Severity    `json:"severity"`
}

func (p Problem) Summary() string {
	return fmt.Sprintf("%s: %d occurrences (%s severity)", p.Type, p.Count, p.Severity)
}

type Correction struct {
	Finding    Finding `json:"error"`
	Suggestion string  `json:"suggestion"`
}

type Statistics struct {
	MeasuresAnalyzed int    `json:"measures_analyzed"`
	Key              string `json:"key"`
	TotalVoices      int    `json:"total_voices"`
	SkippedEvents    int    `json:"skipped_events"`
}

type AnalysisReport struct {
	TotalErrors      int                 `json:"total_errors"`
	ErrorsBySeverity SeverityCounts      `json:"errors_by_severity"`
	ErrorsByType     map[FindingType]int `json:"errors_by_type"`
	CommonProblems   []Problem           `json:"common_problems"`
	Corrections      []Correction        `json:"corrections"`
	Findings         []Finding           `json:"findings"`
	Statistics       Statistics          `json:"statistics"`
}

// StoredReport is what the report store keeps per analyzed input.
type StoredReport struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	Report   AnalysisReport `json:"report"`
	Findings []Finding      `json:"findings"`
}
