package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/harmonycheck/model"
)

// TopProblems is how many common problems the text output lists.
const TopProblems = 5

// WriteText renders a report the way the CLI prints it.
func WriteText(w io.Writer, title string, r model.AnalysisReport) error {
	var b strings.Builder

	if title != "" {
		fmt.Fprintf(&b, "Harmony Analysis Report: %s\n", title)
		b.WriteString(strings.Repeat("=", 40) + "\n")
	}
	fmt.Fprintf(&b, "Key: %s\n", r.Statistics.Key)
	fmt.Fprintf(&b, "Total Measures: %d\n", r.Statistics.MeasuresAnalyzed)
	fmt.Fprintf(&b, "Voices: %d\n", r.Statistics.TotalVoices)
	if r.Statistics.SkippedEvents > 0 {
		fmt.Fprintf(&b, "Skipped Events: %d\n", r.Statistics.SkippedEvents)
	}
	fmt.Fprintf(&b, "Total Errors: %d\n\n", r.TotalErrors)

	b.WriteString("Errors by Severity:\n")
	fmt.Fprintf(&b, "  high: %d\n", r.ErrorsBySeverity.High)
	fmt.Fprintf(&b, "  medium: %d\n", r.ErrorsBySeverity.Medium)
	fmt.Fprintf(&b, "  low: %d\n", r.ErrorsBySeverity.Low)

	if len(r.CommonProblems) > 0 {
		b.WriteString("\nMost Common Issues:\n")
		for i, p := range r.CommonProblems {
			if i == TopProblems {
				break
			}
			fmt.Fprintf(&b, "  - %s\n", p.Summary())
		}
	}

	if len(r.Corrections) > 0 {
		b.WriteString("\nDetailed Errors:\n")
		for _, c := range r.Corrections {
			f := c.Finding
			fmt.Fprintf(&b, "  Measure %d [%s] %s: %s\n", f.Measure, f.Severity, f.Type, f.Description)
			fmt.Fprintf(&b, "    Suggestion: %s\n", c.Suggestion)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
