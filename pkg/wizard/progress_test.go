package wizard_test

import (
	"testing"

	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/testsupport"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

func TestProgress(t *testing.T) {
	def := testsupport.TwoSectionForm()

	cases := []struct {
		name    string
		answers form.AnswerSet
		want    int
	}{
		{name: "none", answers: form.AnswerSet{}, want: 0},
		{name: "optional ignored", answers: form.AnswerSet{"comments": "x"}, want: 0},
		{name: "one of three", answers: form.AnswerSet{"clarity": "5"}, want: 33},
		{name: "two of three", answers: form.AnswerSet{"clarity": "5", "pace": "3"}, want: 67},
		{name: "across sections", answers: form.AnswerSet{"clarity": "5", "overall": "2"}, want: 67},
		{name: "all", answers: form.AnswerSet{"clarity": "5", "pace": "3", "overall": "4"}, want: 100},
		{name: "unknown keys ignored", answers: form.AnswerSet{"ghost": "1"}, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := wizard.Progress(def, tc.answers); got != tc.want {
				t.Fatalf("Progress = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestProgress_NoRequiredQuestionsIsComplete(t *testing.T) {
	def := testsupport.OptionalOnlyForm()
	if got := wizard.Progress(def, nil); got != 100 {
		t.Fatalf("Progress = %d, want 100", got)
	}
	if got := wizard.Progress(def, form.AnswerSet{"liked": "labs"}); got != 100 {
		t.Fatalf("Progress = %d, want 100", got)
	}
}

func TestProgress_Bounds(t *testing.T) {
	def := testsupport.TwoSectionForm()
	answers := form.AnswerSet{}
	prev := wizard.Progress(def, answers)
	for _, id := range []string{"clarity", "pace", "overall", "comments"} {
		answers[id] = "3"
		got := wizard.Progress(def, answers)
		if got < 0 || got > 100 {
			t.Fatalf("Progress out of range: %d", got)
		}
		if got < prev {
			t.Fatalf("Progress decreased after answering %q: %d -> %d", id, prev, got)
		}
		prev = got
	}
}
