// Package session runs the analyzers over one score and keeps what they
// found. A Session is owned by its caller; nothing is shared between
// sessions.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jsphweid/harmonycheck/cadence"
	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/harmony"
	"github.com/jsphweid/harmonycheck/keys"
	"github.com/jsphweid/harmonycheck/logger"
	"github.com/jsphweid/harmonycheck/melody"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/motion"
	"github.com/jsphweid/harmonycheck/report"
)

var ErrInvalidScore = errors.New("invalid score")

// Validate is the only hard precondition of an analysis.
func Validate(score *model.Score) error {
	switch {
	case score == nil || len(score.Voices) == 0:
		return fmt.Errorf("%w: score has no voices", ErrInvalidScore)
	case len(score.Voices) < 2:
		return fmt.Errorf("%w: score must contain at least two voices, got %d", ErrInvalidScore, len(score.Voices))
	}
	for i, v := range score.Voices {
		if len(v.Events) == 0 {
			return fmt.Errorf("%w: voice %d contains no notes", ErrInvalidScore, i+1)
		}
	}
	return nil
}

type Session struct {
	ID    string
	Score *model.Score

	// Key is the key the analysis ran with: the score's own, the detected
	// one, or nil.
	Key *model.Key

	root      chord.RootFinder
	detectKey bool
	reduce    func(*model.Score) ([]model.Chord, []model.SkippedEvent)
	reduced   bool
	chords    []model.Chord
	findings  []model.Finding
	skipped   []model.SkippedEvent
}

type Option func(*Session)

func WithRootFinder(root chord.RootFinder) Option {
	return func(s *Session) {
		if root != nil {
			s.root = root
		}
	}
}

// WithKeyDetection controls whether a key is estimated when the score
// carries none. On by default.
func WithKeyDetection(enabled bool) Option {
	return func(s *Session) {
		s.detectKey = enabled
	}
}

func New(score *model.Score, opts ...Option) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Score:     score,
		root:      chord.TertianRoot,
		reduce:    chord.Reduce,
		detectKey: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type stage struct {
	name string
	run  func() ([]model.Finding, []model.SkippedEvent)
}

func (s *Session) stages() []stage {
	return []stage{
		{"motion", func() ([]model.Finding, []model.SkippedEvent) {
			return motion.Check(s.Score)
		}},
		{"melody", func() ([]model.Finding, []model.SkippedEvent) {
			return melody.Check(s.Score)
		}},
		{"harmony", func() ([]model.Finding, []model.SkippedEvent) {
			if !s.reduced {
				return nil, s.withoutReduction("harmony")
			}
			return harmony.New(s.Key, s.root).Check(s.chords)
		}},
		{"cadence", func() ([]model.Finding, []model.SkippedEvent) {
			if !s.reduced {
				return nil, s.withoutReduction("cadence")
			}
			return cadence.Check(s.chords, s.Key, s.root)
		}},
	}
}

// reduction runs once before the analyzers; harmony and cadence share
// its chords.
func (s *Session) reduction() stage {
	return stage{"reduction", func() ([]model.Finding, []model.SkippedEvent) {
		chords, skipped := s.reduce(s.Score)
		s.chords, s.reduced = chords, true
		return nil, skipped
	}}
}

func (s *Session) withoutReduction(analyzer string) []model.SkippedEvent {
	return []model.SkippedEvent{{Analyzer: analyzer, Reason: "harmonic reduction failed"}}
}

// Analyze validates the score and runs every analyzer in order. The
// context is checked between analyzers, never inside one. Calling it again
// starts over.
func (s *Session) Analyze(ctx context.Context) ([]model.Finding, error) {
	s.findings, s.skipped, s.chords, s.Key = nil, nil, nil, nil
	s.reduced = false

	if err := Validate(s.Score); err != nil {
		logger.Warn("Rejected score", logger.Fields{"session_id": s.ID, "error": err.Error()})
		return nil, err
	}
	s.checkRegisterOrder()
	s.resolveKey()

	s.runStage(s.reduction())
	for _, st := range s.stages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.runStage(st)
	}

	for _, skipped := range s.skipped {
		logger.Skipped(s.ID, skipped)
	}
	logger.Debug("Analysis complete", logger.Fields{
		"session_id": s.ID,
		"findings":   len(s.findings),
		"skipped":    len(s.skipped),
	})
	return s.Findings(), nil
}

// runStage keeps a panicking analyzer from taking the others down with it.
func (s *Session) runStage(st stage) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("analyzer %s panicked: %v", st.name, r)
			logger.Error("Analyzer failed", err, logger.Fields{"session_id": s.ID, "analyzer": st.name})
			s.skipped = append(s.skipped, model.SkippedEvent{Analyzer: st.name, Reason: err.Error()})
		}
	}()

	findings, skipped := st.run()
	s.findings = append(s.findings, findings...)
	s.skipped = append(s.skipped, skipped...)
}

func (s *Session) resolveKey() {
	if s.Score.Key != nil {
		k := *s.Score.Key
		s.Key = &k
		return
	}
	if !s.detectKey {
		return
	}
	k, result, err := keys.Detect(s.Score)
	if err != nil {
		logger.Warn("Could not detect key", logger.Fields{"session_id": s.ID, "error": err.Error()})
		return
	}
	s.Key = &k
	logger.Debug("Detected key", logger.Fields{
		"session_id":  s.ID,
		"key":         k.String(),
		"correlation": result.Candidates[0].Correlation,
	})
}

// checkRegisterOrder warns when the voices do not look ordered from high
// to low. Crossing and range findings assume they are.
func (s *Session) checkRegisterOrder() {
	prev, havePrev := 0.0, false
	for i, v := range s.Score.Voices {
		var total float64
		var n int
		for _, e := range v.Events {
			for _, p := range e.Pitches {
				total += float64(p.Value)
				n++
			}
		}
		if n == 0 {
			continue
		}
		mean := total / float64(n)
		if havePrev && mean > prev {
			logger.Warn("Voices do not appear to be ordered from highest to lowest", logger.Fields{
				"session_id": s.ID,
				"voice":      i + 1,
			})
			return
		}
		prev, havePrev = mean, true
	}
}

// Findings returns a copy of the findings in the order the analyzers
// produced them.
func (s *Session) Findings() []model.Finding {
	res := make([]model.Finding, len(s.findings))
	copy(res, s.findings)
	return res
}

func (s *Session) Skipped() []model.SkippedEvent {
	res := make([]model.SkippedEvent, len(s.skipped))
	copy(res, s.skipped)
	return res
}

func (s *Session) Statistics() model.Statistics {
	stats := model.Statistics{Key: "Unknown", SkippedEvents: len(s.skipped)}
	if s.Score != nil {
		stats.MeasuresAnalyzed = s.Score.Measures()
		stats.TotalVoices = len(s.Score.Voices)
	}
	if s.Key != nil {
		stats.Key = s.Key.String()
	}
	return stats
}

func (s *Session) Report() model.AnalysisReport {
	return report.Build(s.findings, s.Statistics())
}
