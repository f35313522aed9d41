package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

// TwoSectionForm mirrors the common midterm evaluation: a rating section with
// two required questions followed by a comments section with one required
// rating and an optional text answer.
func TwoSectionForm() form.Definition {
	return form.Definition{
		ID:          "cs101-midterm",
		Title:       "CS101 Midterm Evaluation",
		Description: "Tell us how the first half of the term went.",
		Metadata: form.Metadata{
			Instructor: "Dr. Rivera",
			Course:     "CS101",
			Department: "Computer Science",
			Term:       "2026-fall",
		},
		Sections: []form.Section{
			{
				ID:    "teaching",
				Title: "Teaching",
				Questions: []form.Question{
					{ID: "clarity", Text: "Explanations were clear", Type: form.QuestionTypeRating, Required: true},
					{ID: "pace", Text: "The pace was appropriate", Type: form.QuestionTypeRating, Required: true},
				},
			},
			{
				ID:    "overall",
				Title: "Overall",
				Questions: []form.Question{
					{ID: "overall", Text: "Overall rating", Type: form.QuestionTypeRating, Required: true},
					{ID: "comments", Text: "Anything else?", Type: form.QuestionTypeText},
				},
			},
		},
	}
}

// OptionalOnlyForm has a single section without required questions.
func OptionalOnlyForm() form.Definition {
	return form.Definition{
		ID:    "feedback",
		Title: "Open Feedback",
		Sections: []form.Section{
			{
				ID:    "notes",
				Title: "Notes",
				Questions: []form.Question{
					{ID: "liked", Text: "What did you like?", Type: form.QuestionTypeText},
					{ID: "change", Text: "What would you change?", Type: form.QuestionTypeText},
				},
			},
		},
	}
}

// RecordingSink stores every submission it receives. Err, when set, is
// returned instead of recording.
type RecordingSink struct {
	mu          sync.Mutex
	Err         error
	submissions []wizard.Submission
}

// Submit implements wizard.Sink.
func (r *RecordingSink) Submit(_ context.Context, submission wizard.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.submissions = append(r.submissions, submission)
	return nil
}

// Submissions returns the recorded payloads.
func (r *RecordingSink) Submissions() []wizard.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]wizard.Submission(nil), r.submissions...)
}

// FakeScheduler collects scheduled callbacks until Fire runs them.
type FakeScheduler struct {
	mu     sync.Mutex
	timers []*FakeTimer
}

// FakeTimer is a pending callback registered on a FakeScheduler.
type FakeTimer struct {
	Delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// Stop implements wizard.Timer.
func (t *FakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// AfterFunc implements wizard.Scheduler.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) wizard.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &FakeTimer{Delay: d, fn: f}
	s.timers = append(s.timers, timer)
	return timer
}

// Pending counts timers neither stopped nor fired.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Scheduled returns every timer ever registered, in order.
func (s *FakeScheduler) Scheduled() []*FakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*FakeTimer(nil), s.timers...)
}

// Fire runs every pending callback, as if their delays elapsed.
func (s *FakeScheduler) Fire() {
	s.mu.Lock()
	var due []*FakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// FireStale runs a callback even if it was stopped, reproducing a timer that
// raced its Stop call.
func (t *FakeTimer) FireStale() {
	t.fired = true
	t.fn()
}

// FixedClock returns a clock frozen at the given instant.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureOutput runs render against a buffer and returns what it wrote.
func CaptureOutput(t *testing.T, render func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
