// Package score evaluates free-text answers against a question's keyword
// list and reference answer. Evaluation is deterministic: the same answer
// always yields the same score and notes.
package score

import (
	"math"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/rsharan/interviewer/internal/i18n"
	"github.com/rsharan/interviewer/internal/model"
)

// Blend weights for the combined score. Tune here only.
const (
	keywordWeight    = 0.6
	similarityWeight = 0.4
)

var (
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Normalize lowercases the text, strips punctuation and collapses
// whitespace so keyword and similarity matching are robust to formatting.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = punctuation.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Evaluate scores an answer against the question. The result carries the
// blended 0-10 score, its components, and exactly two feedback notes: one
// for keyword coverage, one for similarity, in that order.
func Evaluate(answerText string, q model.Question) model.Evaluation {
	answer := Normalize(answerText)

	coverage := keywordCoverage(answer, q.Keywords)
	similarity := similarityRatio(answer, Normalize(q.Answer))

	return model.Evaluation{
		Score:           round2(10 * (keywordWeight*coverage + similarityWeight*similarity)),
		KeywordCoverage: coverage,
		Similarity:      similarity,
		Notes: []model.Note{
			keywordNote(coverage),
			similarityNote(similarity),
		},
	}
}

// keywordCoverage returns the fraction of keywords found as substrings of
// the normalized answer. Zero keywords means coverage 0, not an error.
func keywordCoverage(answer string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0.0
	}
	found := 0
	for _, kw := range keywords {
		if kw = Normalize(kw); kw != "" && strings.Contains(answer, kw) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

// similarityRatio is the sequence-matcher ratio between the two normalized
// strings, compared rune by rune. Either side empty yields 0.
func similarityRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

func keywordNote(coverage float64) model.Note {
	switch {
	case coverage == 0:
		return note(model.NoteKeywordsMissing, "NoteKeywordsMissing")
	case coverage < 0.5:
		return note(model.NoteKeywordsPartial, "NoteKeywordsPartial")
	default:
		return note(model.NoteKeywordsStrong, "NoteKeywordsStrong")
	}
}

func similarityNote(similarity float64) model.Note {
	switch {
	case similarity > 0.6:
		return note(model.NoteCloseMatch, "NoteCloseMatch")
	case similarity > 0.3:
		return note(model.NoteNeedsClarity, "NoteNeedsClarity")
	default:
		return note(model.NoteLowSimilarity, "NoteLowSimilarity")
	}
}

func note(tag model.NoteTag, msgID string) model.Note {
	return model.Note{Tag: tag, Text: i18n.Msg(msgID)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
