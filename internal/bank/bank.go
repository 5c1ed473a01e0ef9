// Package bank holds the categorized, leveled question bank and
// implements filtered random selection over it.
package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/rsharan/interviewer/internal/model"
)

var (
	// ErrUnknownCategory is returned when the requested category has no
	// entry in the bank.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrEmptySelection is returned when a category exists but holds no
	// questions, so no selection is possible even after widening.
	ErrEmptySelection = errors.New("no questions available")
)

// Bank is an immutable in-memory question bank keyed by category. The
// random source is shared by all sessions, so Select guards it; Bank is
// safe for concurrent use after loading.
type Bank struct {
	categories map[string][]model.Question

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New creates an empty bank. A nil rng falls back to a freshly seeded
// source; tests pass a fixed-seed rand.Rand for deterministic sampling.
func New(rng *rand.Rand) *Bank {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Bank{
		categories: make(map[string][]model.Question),
		rng:        rng,
	}
}

// Load merges questions from raw JSON into the bank. The expected schema
// is {category: [{question, level, keywords, answer}]}. Category and
// level matching is case-insensitive, so keys are normalized on load.
func (b *Bank) Load(data []byte) error {
	var raw map[string][]model.Question
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode question bank: %w", err)
	}
	for category, questions := range raw {
		key := strings.ToLower(strings.TrimSpace(category))
		if _, ok := b.categories[key]; !ok {
			// Register the category even when it holds no questions, so
			// an empty category is distinguishable from an unknown one.
			b.categories[key] = nil
		}
		for _, q := range questions {
			q.Category = key
			q.Level = model.Difficulty(strings.ToLower(string(q.Level)))
			b.categories[key] = append(b.categories[key], q)
		}
	}
	return nil
}

// Categories returns the known category names, sorted.
func (b *Bank) Categories() []string {
	names := make([]string, 0, len(b.categories))
	for name := range b.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of questions in a category (0 for unknown).
func (b *Bank) Size(category string) int {
	return len(b.categories[strings.ToLower(category)])
}

// Select returns exactly count questions from the category. Questions
// matching the difficulty are preferred; if none match, the whole
// category is used instead. When the pool is at least count large the
// result is a uniform sample without repeats. A smaller pool is returned
// in full, then topped up with independent uniform draws, so repeats are
// possible. Both behaviors are deliberate: they keep small banks usable.
func (b *Bank) Select(category string, difficulty model.Difficulty, count int) ([]model.Question, error) {
	if count < 1 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}

	all, ok := b.categories[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	pool := make([]model.Question, 0, len(all))
	for _, q := range all {
		if strings.EqualFold(string(q.Level), string(difficulty)) {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		// Fallback: any difficulty within the category.
		pool = all
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w in category %q", ErrEmptySelection, category)
	}

	selected := make([]model.Question, 0, count)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, i := range b.rng.Perm(len(pool)) {
		if len(selected) == count {
			break
		}
		selected = append(selected, pool[i])
	}
	for len(selected) < count {
		selected = append(selected, pool[b.rng.IntN(len(pool))])
	}
	return selected, nil
}
