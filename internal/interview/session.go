// Package interview owns the session state machine: an ordered question
// sequence, a cursor, and an append-only answer log.
package interview

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rsharan/interviewer/internal/bank"
	"github.com/rsharan/interviewer/internal/model"
	"github.com/rsharan/interviewer/internal/report"
	"github.com/rsharan/interviewer/internal/score"
)

var (
	// ErrNoActiveQuestion is returned when an answer is submitted after
	// the session already completed. It is a benign "already finished"
	// signal, not a hard failure.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrNotCompleted is returned when a report is requested before the
	// session has answered every question.
	ErrNotCompleted = errors.New("interview not completed")
)

// Session is one candidate's pass through an ordered set of questions.
// All mutation happens through Manager under the session mutex, so the
// cursor always equals the answer log length between submissions.
type Session struct {
	mu sync.Mutex

	ID         string
	Category   string
	Difficulty model.Difficulty
	IOMode     model.IOMode
	StartedAt  time.Time

	questions []model.Question
	cursor    int
	answers   []model.AnswerRecord
	state     model.SessionState
	report    *model.Report
}

// State returns the session lifecycle state.
func (s *Session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Progress returns the cursor position and the total question count.
func (s *Session) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, len(s.questions)
}

// Answers returns a copy of the answer log.
func (s *Session) Answers() []model.AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AnswerRecord, len(s.answers))
	copy(out, s.answers)
	return out
}

// SubmitResult is what a single answer submission yields: the evaluation,
// and either the next question or the finished signal with the report.
type SubmitResult struct {
	Evaluation model.Evaluation
	Finished   bool
	Next       *model.Question
	NextIndex  int
	Report     *model.Report
}

// Manager coordinates sessions: question selection at start, per-answer
// evaluation, and report construction on the final answer. Sessions are
// isolated; the only shared structure is the injected store.
type Manager struct {
	bank    *bank.Bank
	store   Store
	builder *report.Builder
	now     func() time.Time
}

// NewManager wires the question bank, session store and report builder.
func NewManager(b *bank.Bank, st Store, rb *report.Builder) *Manager {
	return &Manager{bank: b, store: st, builder: rb, now: time.Now}
}

// WithClock overrides the start-time source for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Start selects count questions and creates a new in-progress session,
// returning it together with the first question.
func (m *Manager) Start(category string, difficulty model.Difficulty, mode model.IOMode, count int) (*Session, model.Question, error) {
	questions, err := m.bank.Select(category, difficulty, count)
	if err != nil {
		return nil, model.Question{}, fmt.Errorf("select questions: %w", err)
	}

	s := &Session{
		ID:         uuid.NewString(),
		Category:   category,
		Difficulty: difficulty,
		IOMode:     mode,
		StartedAt:  m.now(),
		questions:  questions,
		state:      model.StateInProgress,
	}
	m.store.Put(s)
	return s, questions[0], nil
}

// Get returns the session for an opaque identifier.
func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// CurrentQuestion peeks at the question under the cursor without
// advancing. finished is true once every question has been answered; the
// caller is expected to request the report then.
func (m *Manager) CurrentQuestion(id string) (q model.Question, index int, finished bool, err error) {
	s, err := m.Get(id)
	if err != nil {
		return model.Question{}, 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.questions) {
		return model.Question{}, s.cursor, true, nil
	}
	return s.questions[s.cursor], s.cursor, false, nil
}

// SubmitAnswer evaluates the answer against the current question, appends
// the record and advances the cursor. The log append, cursor increment
// and, on the last answer, report construction happen under one lock so
// no observer sees a partially advanced session.
func (m *Manager) SubmitAnswer(id, answerText string) (*SubmitResult, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.questions) {
		return nil, ErrNoActiveQuestion
	}

	q := s.questions[s.cursor]
	ev := score.Evaluate(answerText, q)
	s.answers = append(s.answers, model.AnswerRecord{
		QuestionIndex: s.cursor,
		Question:      q.Text,
		Answer:        answerText,
		Evaluation:    ev,
	})
	s.cursor++

	if s.cursor < len(s.questions) {
		next := s.questions[s.cursor]
		return &SubmitResult{Evaluation: ev, Next: &next, NextIndex: s.cursor}, nil
	}

	// Last answer: the session completes and the report is built as part
	// of the same operation.
	s.state = model.StateCompleted
	r := m.builder.Build(s.Category, s.Difficulty, s.StartedAt, s.answers)
	s.report = &r
	return &SubmitResult{Evaluation: ev, Finished: true, Report: &r}, nil
}

// Report returns the report of a completed session.
func (m *Manager) Report(id string) (*model.Report, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil, ErrNotCompleted
	}
	return s.report, nil
}

// Reset discards a session. Unknown ids are ignored.
func (m *Manager) Reset(id string) {
	m.store.Delete(id)
}
