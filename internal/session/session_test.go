package session

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"time"

	"babynames/internal/engine"
	"babynames/internal/models"
)

func testIndex(female, male []string) *engine.Index {
	store := engine.NewRecordStore()
	for i, n := range female {
		store.Append(n, models.GenderFemale, int64(10+i), 2000)
	}
	for i, n := range male {
		store.Append(n, models.GenderMale, int64(10+i), 2000)
	}
	return store.Aggregate()
}

func newTestSession(idx *engine.Index, opts Options) (*Session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	sampler := engine.NewSampler(rand.New(rand.NewPCG(1, 2)))
	return New(idx, sampler, out, nil, opts), out
}

func TestInvalidChoiceWithoutGender(t *testing.T) {
	s, out := newTestSession(testIndex([]string{"Mary"}, nil), Options{})

	for _, in := range []string{"", "x", "N", "1 2"} {
		if got := s.Handle(in); got != StateNoGender {
			t.Fatalf("input %q: expected StateNoGender, got %s", in, got)
		}
	}
	if !strings.Contains(out.String(), "Invalid choice") {
		t.Fatalf("expected instruction message, got %q", out.String())
	}
}

func TestSelectGenderWithEmptyPoolStays(t *testing.T) {
	s, out := newTestSession(testIndex([]string{"Mary"}, nil), Options{})

	if got := s.Handle("M"); got != StateNoGender {
		t.Fatalf("expected StateNoGender, got %s", got)
	}
	if !strings.Contains(out.String(), "No names available for gender M") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSelectGenderDrawsFirstBatch(t *testing.T) {
	s, _ := newTestSession(testIndex([]string{"Mary", "Anna", "Emma"}, []string{"John"}), Options{BatchSize: 2})

	if got := s.Handle("f"); got != StateGender {
		t.Fatalf("expected StateGender, got %s", got)
	}
	batch, ok := s.Current()
	if !ok {
		t.Fatal("expected a current batch")
	}
	if batch.Gender != models.GenderFemale || len(batch.Names) != 2 {
		t.Fatalf("unexpected batch %+v", batch)
	}
	if len(s.History()) != 1 || s.Position() != 0 {
		t.Fatalf("expected history of 1 at position 0, got %d at %d", len(s.History()), s.Position())
	}
}

func TestBackAtFirstBatch(t *testing.T) {
	s, out := newTestSession(testIndex([]string{"Mary", "Anna", "Emma"}, nil), Options{BatchSize: 2})
	s.Handle("F")
	before, _ := s.Current()
	out.Reset()

	s.Handle("B")

	after, _ := s.Current()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("batch changed: %v -> %v", before, after)
	}
	if !strings.Contains(out.String(), "Already at the first batch.") {
		t.Fatalf("expected notice, got %q", out.String())
	}
}

func TestNextAndBackNavigateHistory(t *testing.T) {
	s, _ := newTestSession(testIndex([]string{"A", "B", "C", "D", "E"}, nil), Options{BatchSize: 2})
	s.Handle("F")
	first, _ := s.Current()

	s.Handle("N")
	second, _ := s.Current()
	if s.Position() != 1 || len(s.History()) != 2 {
		t.Fatalf("expected position 1 of 2, got %d of %d", s.Position(), len(s.History()))
	}

	s.Handle("B")
	if got, _ := s.Current(); !reflect.DeepEqual(got, first) {
		t.Fatalf("back: expected %v, got %v", first, got)
	}

	// Forward again replays history instead of drawing.
	s.Handle("n")
	if got, _ := s.Current(); !reflect.DeepEqual(got, second) {
		t.Fatalf("next: expected %v, got %v", second, got)
	}
	if len(s.History()) != 2 {
		t.Fatalf("expected no new draw, history is %d", len(s.History()))
	}
}

func TestLikeIsIdempotent(t *testing.T) {
	s, out := newTestSession(testIndex([]string{"Mary"}, nil), Options{})
	s.Handle("F")

	s.Handle("1")
	s.Handle("1")

	if s.Liked().Len() != 1 {
		t.Fatalf("expected 1 liked name, got %d", s.Liked().Len())
	}
	if !s.Liked().Has(models.NameKey{Name: "Mary", Gender: models.GenderFemale}) {
		t.Fatal("Mary should be liked")
	}
	if !strings.Contains(out.String(), "already in your liked list") {
		t.Fatalf("expected re-like notice, got %q", out.String())
	}
}

func TestLikeOutOfRangeReportedIndividually(t *testing.T) {
	s, out := newTestSession(testIndex([]string{"Mary", "Anna"}, nil), Options{})
	s.Handle("F")
	out.Reset()

	s.Handle("0 2 9")

	if s.Liked().Len() != 1 {
		t.Fatalf("expected 1 liked name, got %d", s.Liked().Len())
	}
	text := out.String()
	for _, want := range []string{"Invalid number: 0", "Invalid number: 9"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}
}

func TestLikeNonNumericRejectsWholeLine(t *testing.T) {
	s, out := newTestSession(testIndex([]string{"Mary", "Anna"}, nil), Options{})
	s.Handle("F")

	if got := s.Handle("1 two"); got != StateGender {
		t.Fatalf("expected StateGender, got %s", got)
	}
	if s.Liked().Len() != 0 {
		t.Fatalf("expected nothing liked, got %d", s.Liked().Len())
	}
	if !strings.Contains(out.String(), "Invalid input") {
		t.Fatalf("expected invalid input message, got %q", out.String())
	}
}

func TestChangeGenderDiscardsHistory(t *testing.T) {
	s, _ := newTestSession(testIndex([]string{"Mary", "Anna", "Emma"}, []string{"John"}), Options{BatchSize: 1})
	s.Handle("F")
	s.Handle("1")
	s.Handle("N")

	if got := s.Handle("C"); got != StateNoGender {
		t.Fatalf("expected StateNoGender, got %s", got)
	}
	if len(s.History()) != 0 {
		t.Fatalf("expected history discarded, got %d", len(s.History()))
	}
	if _, ok := s.Current(); ok {
		t.Fatal("no batch expected without gender")
	}
	if s.Liked().Len() != 1 {
		t.Fatal("liked names survive a gender change")
	}

	s.Handle("M")
	batch, _ := s.Current()
	if !reflect.DeepEqual(batch.Names, []string{"John"}) {
		t.Fatalf("expected [John], got %v", batch.Names)
	}
}

func TestQuitFromAnyState(t *testing.T) {
	s, _ := newTestSession(testIndex([]string{"Mary"}, nil), Options{})
	if got := s.Handle("q"); got != StateDone {
		t.Fatalf("expected StateDone, got %s", got)
	}

	s, _ = newTestSession(testIndex([]string{"Mary"}, nil), Options{})
	s.Handle("F")
	if got := s.Handle(" Q "); got != StateDone {
		t.Fatalf("expected StateDone, got %s", got)
	}
}

func TestNoRepeatExhaustsPool(t *testing.T) {
	s, out := newTestSession(testIndex([]string{"A", "B", "C"}, nil), Options{BatchSize: 2, NoRepeat: true})
	s.Handle("F")
	s.Handle("N")

	seen := map[string]bool{}
	for _, b := range s.History() {
		for _, n := range b.Names {
			if seen[n] {
				t.Fatalf("%q repeated across batches", n)
			}
			seen[n] = true
		}
	}
	if len(seen) != 3 {
		t.Fatalf("expected all 3 names shown, got %v", seen)
	}

	out.Reset()
	s.Handle("N")
	if s.Position() != 1 || len(s.History()) != 2 {
		t.Fatalf("exhausted pool must not move: position %d history %d", s.Position(), len(s.History()))
	}
	if !strings.Contains(out.String(), "no more names available") {
		t.Fatalf("expected exhaustion notice, got %q", out.String())
	}
}

func TestRunReadsUntilQuit(t *testing.T) {
	s, out := newTestSession(testIndex([]string{"Mary"}, nil), Options{})

	err := s.Run(context.Background(), strings.NewReader("F\n1\nQ\nF\n"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.State() != StateDone {
		t.Fatalf("expected StateDone, got %s", s.State())
	}
	if s.Liked().Len() != 1 {
		t.Fatalf("expected 1 liked, got %d", s.Liked().Len())
	}
	if !strings.Contains(out.String(), "1. Mary") {
		t.Fatalf("batch not printed: %q", out.String())
	}
}

func TestRunEndsOnEOF(t *testing.T) {
	s, _ := newTestSession(testIndex([]string{"Mary"}, nil), Options{})
	if err := s.Run(context.Background(), strings.NewReader("F\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.State() != StateDone {
		t.Fatalf("expected StateDone, got %s", s.State())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newTestSession(testIndex([]string{"Mary"}, nil), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, strings.NewReader("F\n")); err != nil {
		t.Fatalf("cancel should end the session like quit, got %v", err)
	}
	if s.State() != StateDone {
		t.Fatalf("expected StateDone, got %s", s.State())
	}
}

func TestRunCancelWhileWaitingForInput(t *testing.T) {
	s, _ := newTestSession(testIndex([]string{"Mary"}, nil), Options{})
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, pr) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run still blocked on input after cancel")
	}
	if s.State() != StateDone {
		t.Fatalf("expected StateDone, got %s", s.State())
	}
}

func TestRunAcceptsVeryLongLines(t *testing.T) {
	s, out := newTestSession(testIndex([]string{"Mary"}, nil), Options{})
	input := "F\n" + strings.Repeat("x", 200*1024) + "\n1\nQ\n"

	if err := s.Run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid input") {
		t.Fatal("long line should be rejected as invalid input")
	}
	if s.Liked().Len() != 1 {
		t.Fatalf("session should continue after a long line, liked %d", s.Liked().Len())
	}
}

func TestRunLastLineWithoutNewline(t *testing.T) {
	s, _ := newTestSession(testIndex([]string{"Mary"}, nil), Options{})
	if err := s.Run(context.Background(), strings.NewReader("F\r\n1")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Liked().Len() != 1 {
		t.Fatalf("expected 1 liked, got %d", s.Liked().Len())
	}
}
