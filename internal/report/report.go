// Package report reduces a completed session's answer log into an
// aggregate report and persists it as a durable record.
package report

import (
	"log/slog"
	"math"
	"time"

	"github.com/rsharan/interviewer/internal/i18n"
	"github.com/rsharan/interviewer/internal/model"
)

// Sink persists a finished report. Save must be safe to retry: a failed
// write leaves no partial state behind.
type Sink interface {
	Save(r model.Report) error
}

// Builder turns a completed answer log into a model.Report and fans it
// out to the configured sinks.
type Builder struct {
	sinks []Sink
	now   func() time.Time
}

// NewBuilder creates a builder writing to the given sinks.
func NewBuilder(sinks ...Sink) *Builder {
	return &Builder{sinks: sinks, now: time.Now}
}

// WithClock overrides the completion-time source. Tests use this for
// stable report keys.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build computes the final report for a completed session and persists
// it. Persistence failures are logged and swallowed: the in-memory report
// is always returned and the session stays completed.
func (b *Builder) Build(category string, difficulty model.Difficulty, startedAt time.Time, answers []model.AnswerRecord) model.Report {
	var total float64
	var strengths, weaknesses []model.ReportEntry

	for _, ans := range answers {
		total += ans.Evaluation.Score
		for _, note := range ans.Evaluation.Notes {
			entry := model.ReportEntry{Question: ans.Question, Note: note.Text}
			if note.Tag.Weakness() {
				weaknesses = append(weaknesses, entry)
			} else {
				strengths = append(strengths, entry)
			}
		}
	}

	average := 0.0
	if len(answers) > 0 {
		average = math.Round(total/float64(len(answers))*100) / 100
	}

	r := model.Report{
		Category:      category,
		Difficulty:    difficulty,
		StartedAt:     startedAt,
		CompletedAt:   b.now(),
		QuestionCount: len(answers),
		AverageScore:  average,
		Strengths:     strengths,
		Weaknesses:    weaknesses,
		Suggestions:   suggestions(len(weaknesses)),
		Answers:       answers,
	}

	for _, sink := range b.sinks {
		if err := sink.Save(r); err != nil {
			slog.Error("report persistence failed", "key", r.Key(), "error", err)
		}
	}
	return r
}

// suggestions returns the fixed policy advice: two remediation items when
// any weakness was found, otherwise a single encouragement.
func suggestions(weaknessCount int) []string {
	if weaknessCount > 0 {
		return []string{
			i18n.Msg("SuggestStructure"),
			i18n.Msg("SuggestKeywords"),
		}
	}
	return []string{i18n.Msg("SuggestKeepPracticing")}
}
