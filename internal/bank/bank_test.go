package bank

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/rsharan/interviewer/internal/model"
)

const testBank = `{
	"student": [
		{"question": "What is a pointer?", "level": "easy", "keywords": ["pointer", "memory"], "answer": "A pointer holds the memory address of a value."},
		{"question": "What is a slice?", "level": "easy", "keywords": ["slice", "array"], "answer": "A slice is a view over an underlying array."},
		{"question": "What is a goroutine?", "level": "easy", "keywords": ["goroutine", "concurrency"], "answer": "A goroutine is a lightweight thread managed by the runtime."},
		{"question": "Explain garbage collection.", "level": "hard", "keywords": ["heap", "garbage collector"], "answer": "The garbage collector reclaims unreachable heap memory."}
	],
	"hr": [
		{"question": "Tell me about yourself.", "level": "easy", "keywords": ["experience"], "answer": "A short summary of background and experience."},
		{"question": "Describe a conflict you resolved.", "level": "medium", "keywords": ["conflict", "resolution"], "answer": "Describe the situation, the action taken and the result."}
	],
	"empty": []
}`

func newTestBank(t *testing.T, seed uint64) *Bank {
	t.Helper()
	b := New(rand.New(rand.NewPCG(seed, seed)))
	if err := b.Load([]byte(testBank)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return b
}

func TestLoadNormalizesCategories(t *testing.T) {
	b := New(rand.New(rand.NewPCG(1, 1)))
	if err := b.Load([]byte(`{"Student": [{"question": "Q", "level": "Easy", "keywords": [], "answer": "A"}]}`)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Size("student") != 1 {
		t.Errorf("Size(student) = %d, want 1", b.Size("student"))
	}
	qs, err := b.Select("STUDENT", model.DifficultyEasy, 1)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if qs[0].Category != "student" {
		t.Errorf("category = %q, want 'student'", qs[0].Category)
	}
	if qs[0].Level != model.DifficultyEasy {
		t.Errorf("level = %q, want 'easy'", qs[0].Level)
	}
}

func TestSelectUnknownCategory(t *testing.T) {
	b := newTestBank(t, 1)
	_, err := b.Select("devops", model.DifficultyEasy, 2)
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestSelectEmptyCategory(t *testing.T) {
	b := newTestBank(t, 1)
	_, err := b.Select("empty", model.DifficultyEasy, 1)
	if !errors.Is(err, ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}
}

func TestSelectInvalidCount(t *testing.T) {
	b := newTestBank(t, 1)
	for _, count := range []int{0, -3} {
		if _, err := b.Select("student", model.DifficultyEasy, count); err == nil {
			t.Errorf("Select(count=%d) expected error", count)
		}
	}
}

func TestSelectExactCountNoRepeats(t *testing.T) {
	b := newTestBank(t, 42)
	qs, err := b.Select("student", model.DifficultyEasy, 2)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Text == qs[1].Text {
		t.Errorf("sample contains repeat: %q", qs[0].Text)
	}
	for _, q := range qs {
		if q.Level != model.DifficultyEasy {
			t.Errorf("question %q has level %q, want easy", q.Text, q.Level)
		}
	}
}

func TestSelectDifficultyFallback(t *testing.T) {
	b := newTestBank(t, 7)
	// No medium student questions exist; the pool widens to the category.
	qs, err := b.Select("student", model.DifficultyMedium, 4)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(qs) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(qs))
	}
	seen := make(map[string]bool)
	for _, q := range qs {
		seen[q.Text] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct questions from widened pool, got %d", len(seen))
	}
}

func TestSelectRepeatFill(t *testing.T) {
	b := newTestBank(t, 3)
	// The hr category has 2 questions; asking for 5 must repeat-fill.
	qs, err := b.Select("hr", "", 5)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(qs))
	}

	// The first two slots hold the full pool without repeats.
	if qs[0].Text == qs[1].Text {
		t.Errorf("leading slots repeat: %q", qs[0].Text)
	}

	// Trailing slots are drawn from the same pool.
	poolTexts := map[string]bool{qs[0].Text: true, qs[1].Text: true}
	for i := 2; i < 5; i++ {
		if !poolTexts[qs[i].Text] {
			t.Errorf("slot %d holds question outside the pool: %q", i, qs[i].Text)
		}
	}
}

func TestSelectConcurrent(t *testing.T) {
	b := newTestBank(t, 17)

	// Sessions share one bank; concurrent starts must not corrupt the
	// random source. Run under -race to verify.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				qs, err := b.Select("student", model.DifficultyEasy, 3)
				if err != nil {
					t.Errorf("Select: %v", err)
					return
				}
				if len(qs) != 3 {
					t.Errorf("expected 3 questions, got %d", len(qs))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSelectDeterministicWithSeed(t *testing.T) {
	first, err := newTestBank(t, 99).Select("student", model.DifficultyEasy, 3)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	second, err := newTestBank(t, 99).Select("student", model.DifficultyEasy, 3)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Fatalf("seeded selection diverged at %d: %q vs %q", i, first[i].Text, second[i].Text)
		}
	}
}

func TestCategories(t *testing.T) {
	b := newTestBank(t, 1)
	got := b.Categories()
	want := []string{"empty", "hr", "student"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
