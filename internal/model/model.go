package model

import "time"

// Difficulty represents question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IOMode selects how the candidate answers questions. The core treats
// transcribed speech and typed text identically.
type IOMode string

const (
	IOModeText  IOMode = "text"
	IOModeVoice IOMode = "voice"
)

// SessionState represents the lifecycle state of an interview session.
// Completed is terminal; a completed session is read-only.
type SessionState string

const (
	StateNotStarted SessionState = "not_started"
	StateInProgress SessionState = "in_progress"
	StateCompleted  SessionState = "completed"
)

// Question is a single interview question. Immutable once loaded from the bank.
type Question struct {
	Text     string     `json:"question"`
	Level    Difficulty `json:"level"`
	Category string     `json:"category,omitempty"`
	Keywords []string   `json:"keywords"`
	Answer   string     `json:"answer"`
}

// NoteTag identifies the class of a feedback note independent of its
// display wording, so report classification never parses note text.
type NoteTag string

const (
	NoteKeywordsMissing NoteTag = "keywords_missing"
	NoteKeywordsPartial NoteTag = "keywords_partial"
	NoteKeywordsStrong  NoteTag = "keywords_strong"
	NoteCloseMatch      NoteTag = "close_match"
	NoteNeedsClarity    NoteTag = "needs_clarity"
	NoteLowSimilarity   NoteTag = "low_similarity"
)

// Weakness reports whether the tag counts as a weakness signal in the
// final report.
func (t NoteTag) Weakness() bool {
	switch t {
	case NoteKeywordsMissing, NoteKeywordsPartial, NoteNeedsClarity, NoteLowSimilarity:
		return true
	}
	return false
}

// Note is one qualitative feedback item attached to an evaluation.
type Note struct {
	Tag  NoteTag `json:"tag"`
	Text string  `json:"text"`
}

// Evaluation is the scorer's verdict on a single answer. Score is in
// [0,10]; KeywordCoverage and Similarity are the unrounded components
// in [0,1] that the score was derived from.
type Evaluation struct {
	Score           float64 `json:"score_out_of_10"`
	KeywordCoverage float64 `json:"keyword_score"`
	Similarity      float64 `json:"similarity_score"`
	Notes           []Note  `json:"feedback_notes"`
}

// AnswerRecord pairs a submitted answer with its evaluation. Appended to
// the session log on submission and never mutated afterwards.
type AnswerRecord struct {
	QuestionIndex int        `json:"question_index"`
	Question      string     `json:"question"`
	Answer        string     `json:"given_answer"`
	Evaluation    Evaluation `json:"evaluation"`
}

// ReportEntry ties a feedback note to the question it was produced for.
type ReportEntry struct {
	Question string `json:"question"`
	Note     string `json:"note"`
}

// Report is the durable, aggregated outcome of a completed session. It is
// an independent copy and shares no mutable state with the session.
type Report struct {
	Category      string         `json:"category"`
	Difficulty    Difficulty     `json:"difficulty"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   time.Time      `json:"completed_at"`
	QuestionCount int            `json:"num_questions"`
	AverageScore  float64        `json:"average_score_out_of_10"`
	Strengths     []ReportEntry  `json:"strengths"`
	Weaknesses    []ReportEntry  `json:"weaknesses"`
	Suggestions   []string       `json:"suggestions"`
	Answers       []AnswerRecord `json:"detailed_answers"`
}

// Key returns the timestamp-derived identifier used for persisted
// records, e.g. "report_20250901_153012".
func (r Report) Key() string {
	return "report_" + r.CompletedAt.UTC().Format("20060102_150405")
}

// WebConfig holds runtime parameters for the HTTP layer set via CLI flags.
type WebConfig struct {
	DefaultQuestions int  // questions per session when the client omits a count
	SecureCookies    bool // Set Secure flag on cookies (disable for local dev)
}
