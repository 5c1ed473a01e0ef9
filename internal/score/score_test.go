package score

import (
	"math"
	"os"
	"testing"

	"github.com/rsharan/interviewer/internal/i18n"
	"github.com/rsharan/interviewer/internal/model"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "Hello World", "hello world"},
		{"strips punctuation", "it's a test, really!", "its a test really"},
		{"collapses whitespace", "  a \t b \n c  ", "a b c"},
		{"keeps digits", "Go 1.25", "go 125"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeywordCoverage(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		keywords []string
		want     float64
	}{
		{"all present", "pointers point at memory", []string{"pointer", "memory"}, 1.0},
		{"half present", "it lives in memory", []string{"pointer", "memory"}, 0.5},
		{"none present", "no idea", []string{"pointer", "memory"}, 0.0},
		{"empty answer", "", []string{"pointer"}, 0.0},
		{"no keywords", "anything", nil, 0.0},
		{"case insensitive", "POINTERS and Memory", []string{"Pointer", "memory"}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keywordCoverage(Normalize(tt.answer), tt.keywords)
			if got != tt.want {
				t.Errorf("keywordCoverage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarityRatio(t *testing.T) {
	if got := similarityRatio("identical text", "identical text"); got != 1.0 {
		t.Errorf("identical strings: ratio = %v, want 1.0", got)
	}
	if got := similarityRatio("", "reference"); got != 0.0 {
		t.Errorf("empty left: ratio = %v, want 0.0", got)
	}
	if got := similarityRatio("answer", ""); got != 0.0 {
		t.Errorf("empty right: ratio = %v, want 0.0", got)
	}
	got := similarityRatio("abcd", "wxyz")
	if got != 0.0 {
		t.Errorf("disjoint strings: ratio = %v, want 0.0", got)
	}
	got = similarityRatio("partial overlap here", "partial overlap there")
	if got <= 0.5 || got > 1.0 {
		t.Errorf("overlapping strings: ratio = %v, want in (0.5, 1.0]", got)
	}
}

func TestEvaluateScoreFormula(t *testing.T) {
	q := model.Question{
		Text:     "What is a pointer?",
		Keywords: []string{"pointer", "memory"},
		Answer:   "A pointer holds the memory address of a value.",
	}
	ev := Evaluate("A pointer stores a memory address.", q)

	want := math.Round(10*(keywordWeight*ev.KeywordCoverage+similarityWeight*ev.Similarity)*100) / 100
	if ev.Score != want {
		t.Errorf("Score = %v, want recomputed %v", ev.Score, want)
	}
	if ev.Score < 0 || ev.Score > 10 {
		t.Errorf("Score = %v out of [0,10]", ev.Score)
	}
	if ev.KeywordCoverage != 1.0 {
		t.Errorf("KeywordCoverage = %v, want 1.0", ev.KeywordCoverage)
	}
}

func TestEvaluateNoteOrderAndTags(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		question model.Question
		wantTags []model.NoteTag
	}{
		{
			name:   "strong answer",
			answer: "A pointer holds the memory address of a value.",
			question: model.Question{
				Keywords: []string{"pointer", "memory"},
				Answer:   "A pointer holds the memory address of a value.",
			},
			wantTags: []model.NoteTag{model.NoteKeywordsStrong, model.NoteCloseMatch},
		},
		{
			name:   "partial keywords low similarity",
			answer: "uh memory maybe",
			question: model.Question{
				Keywords: []string{"pointer", "memory", "address"},
				Answer:   "A pointer holds the memory address of a value and can be dereferenced.",
			},
			wantTags: []model.NoteTag{model.NoteKeywordsPartial, model.NoteLowSimilarity},
		},
		{
			name:   "empty answer",
			answer: "",
			question: model.Question{
				Keywords: []string{"pointer"},
				Answer:   "A pointer holds a memory address.",
			},
			wantTags: []model.NoteTag{model.NoteKeywordsMissing, model.NoteLowSimilarity},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluate(tt.answer, tt.question)
			if len(ev.Notes) != 2 {
				t.Fatalf("expected exactly 2 notes, got %d", len(ev.Notes))
			}
			for i, want := range tt.wantTags {
				if ev.Notes[i].Tag != want {
					t.Errorf("note %d tag = %q, want %q", i, ev.Notes[i].Tag, want)
				}
				if ev.Notes[i].Text == "" || ev.Notes[i].Text == string(want) {
					t.Errorf("note %d has no display text: %q", i, ev.Notes[i].Text)
				}
			}
		})
	}
}

func TestEvaluateEmptyAnswerScoresZero(t *testing.T) {
	q := model.Question{
		Keywords: []string{"pointer", "memory"},
		Answer:   "A pointer holds the memory address of a value.",
	}
	ev := Evaluate("", q)
	if ev.Score != 0.0 {
		t.Errorf("Score = %v, want 0.0", ev.Score)
	}
	if ev.KeywordCoverage != 0.0 || ev.Similarity != 0.0 {
		t.Errorf("components = (%v, %v), want (0, 0)", ev.KeywordCoverage, ev.Similarity)
	}
}

func TestEvaluateNoKeywordsDegradesGracefully(t *testing.T) {
	q := model.Question{Answer: "Some reference answer."}
	ev := Evaluate("Some reference answer.", q)
	if ev.KeywordCoverage != 0.0 {
		t.Errorf("KeywordCoverage = %v, want 0.0 for empty keyword list", ev.KeywordCoverage)
	}
	if ev.Notes[0].Tag != model.NoteKeywordsMissing {
		t.Errorf("first note tag = %q, want keywords_missing", ev.Notes[0].Tag)
	}
	// Similarity alone still contributes 0.4 weight.
	if ev.Score != 4.0 {
		t.Errorf("Score = %v, want 4.0 for identical reference with no keywords", ev.Score)
	}
}

func TestEvaluateFullCoverageScenario(t *testing.T) {
	q := model.Question{
		Text:     "Explain pointers.",
		Keywords: []string{"pointer", "memory"},
		Answer:   "Pointers reference memory locations and allow indirect access to values.",
	}
	ev := Evaluate("I discussed pointers and memory management of values and indirect access", q)
	if ev.KeywordCoverage != 1.0 {
		t.Fatalf("KeywordCoverage = %v, want 1.0", ev.KeywordCoverage)
	}
	if ev.Score < 6.0 {
		t.Errorf("Score = %v, want >= 6.0 with full coverage and moderate similarity", ev.Score)
	}
	if ev.Notes[0].Tag != model.NoteKeywordsStrong {
		t.Errorf("first note tag = %q, want keywords_strong", ev.Notes[0].Tag)
	}
}
