package service_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/goliatone/go-evalform/internal/cache"
	"github.com/goliatone/go-evalform/internal/repository"
	"github.com/goliatone/go-evalform/internal/service"
	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/testsupport"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

type fixture struct {
	forms       *service.FormService
	sessions    *service.SessionService
	submissions repository.SubmissionRepo
	now         time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	formRepo := repository.NewMemoryFormRepo()
	f.submissions = repository.NewMemorySubmissionRepo()
	f.forms = service.NewFormService(formRepo, f.submissions, zap.NewNop())

	seq := 0
	f.sessions = service.NewSessionService(
		formRepo,
		cache.NewMemorySessionCache(time.Hour, clock),
		repository.SubmissionSink(f.submissions),
		zap.NewNop(),
		service.WithClock(clock),
		service.WithNoticeTimeout(5*time.Second),
		service.WithIDGenerator(func() string {
			seq++
			return "sess-" + strconv.Itoa(seq)
		}),
	)

	if _, err := f.forms.Create(context.Background(), testsupport.TwoSectionForm()); err != nil {
		t.Fatalf("create form: %v", err)
	}
	return f
}

func TestSessionService_FullFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	view, err := f.sessions.Start(ctx, "cs101-midterm")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if view.SessionID != "sess-1" || view.SectionIndex != 0 || view.Progress != 0 {
		t.Fatalf("unexpected start view %+v", view)
	}

	view, err = f.sessions.Next(ctx, "sess-1")
	var vErr *wizard.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !view.ValidationError {
		t.Fatalf("blocked Next must return the view with the notice")
	}

	view, err = f.sessions.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !view.ValidationError {
		t.Fatalf("notice must survive between requests until it expires")
	}

	f.now = f.now.Add(6 * time.Second)
	view, _ = f.sessions.Get(ctx, "sess-1")
	if view.ValidationError {
		t.Fatalf("notice must clear once expired")
	}

	for id, value := range map[string]string{"clarity": "5", "pace": "4"} {
		if _, err := f.sessions.Answer(ctx, "sess-1", id, value); err != nil {
			t.Fatalf("Answer %s: %v", id, err)
		}
	}
	view, err = f.sessions.Next(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if view.SectionIndex != 1 || view.Progress != 67 {
		t.Fatalf("unexpected view after Next: index=%d progress=%d", view.SectionIndex, view.Progress)
	}

	if _, err := f.sessions.Answer(ctx, "sess-1", "overall", "9"); !errors.Is(err, wizard.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if _, err := f.sessions.Answer(ctx, "sess-1", "overall", "3"); err != nil {
		t.Fatalf("Answer overall: %v", err)
	}
	view, err = f.sessions.Submit(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !view.Submitted || view.Progress != 100 {
		t.Fatalf("expected submitted view, got %+v", view)
	}

	stored, err := f.forms.Submissions(ctx, "cs101-midterm")
	if err != nil {
		t.Fatalf("Submissions: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected one stored submission, got %d", len(stored))
	}
	want := form.AnswerSet{"clarity": "5", "pace": "4", "overall": "3"}
	if diff := cmp.Diff(want, stored[0].Answers); diff != "" {
		t.Fatalf("answers (-want +got):\n%s", diff)
	}
	if stored[0].SessionID != "sess-1" || !stored[0].SubmittedAt.Equal(f.now) {
		t.Fatalf("unexpected submission meta %+v", stored[0])
	}

	if _, err := f.sessions.Answer(ctx, "sess-1", "comments", "late"); !errors.Is(err, wizard.ErrSubmitted) {
		t.Fatalf("expected ErrSubmitted, got %v", err)
	}
	view, _ = f.sessions.Get(ctx, "sess-1")
	if !view.Submitted {
		t.Fatalf("submitted state must persist")
	}
}

func TestSessionService_Step(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.sessions.Start(ctx, "cs101-midterm"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	view, err := f.sessions.Step(ctx, "sess-1", form.AnswerSet{"clarity": "2"}, service.ActionNext)
	if !errors.Is(err, wizard.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if view.Answers["clarity"] != "2" {
		t.Fatalf("answers must be kept even when the move is blocked")
	}

	view, err = f.sessions.Step(ctx, "sess-1", form.AnswerSet{"pace": "3"}, service.ActionNext)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if view.SectionIndex != 1 {
		t.Fatalf("expected section 1, got %d", view.SectionIndex)
	}

	view, err = f.sessions.Step(ctx, "sess-1", nil, service.ActionPrevious)
	if err != nil || view.SectionIndex != 0 {
		t.Fatalf("Step previous: %d %v", view.SectionIndex, err)
	}

	if _, err := f.sessions.Step(ctx, "sess-1", nil, service.Action("jump")); !errors.Is(err, service.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestSessionService_StepRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.sessions.Start(ctx, "cs101-midterm"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	view, err := f.sessions.Step(ctx, "sess-1", form.AnswerSet{"clarity": "4", "pace": "9"}, service.ActionNext)
	if !errors.Is(err, wizard.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if view.SectionIndex != 0 || len(view.Answers) != 0 {
		t.Fatalf("rejected step must not change the session: index=%d answers=%v", view.SectionIndex, view.Answers)
	}

	view, err = f.sessions.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := view.Answers["clarity"]; ok {
		t.Fatalf("rejected step must not persist partial answers, got %v", view.Answers)
	}
}

func TestSessionService_FormShrunkMidSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.sessions.Start(ctx, "cs101-midterm"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.sessions.Step(ctx, "sess-1", form.AnswerSet{"clarity": "5", "pace": "4"}, service.ActionNext); err != nil {
		t.Fatalf("Step next: %v", err)
	}
	if _, err := f.sessions.Submit(ctx, "sess-1"); !errors.Is(err, wizard.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	shrunk := testsupport.TwoSectionForm()
	shrunk.Sections = shrunk.Sections[:1]
	if _, err := f.forms.Update(ctx, "cs101-midterm", shrunk); err != nil {
		t.Fatalf("Update: %v", err)
	}

	view, err := f.sessions.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.SectionIndex != 0 || view.SectionCount != 1 {
		t.Fatalf("expected to resume on the only section, got %d of %d", view.SectionIndex, view.SectionCount)
	}
	if view.ValidationError {
		t.Fatalf("notice for a removed section must not be restored")
	}
	if diff := cmp.Diff(form.AnswerSet{"clarity": "5", "pace": "4"}, view.Answers); diff != "" {
		t.Fatalf("answers (-want +got):\n%s", diff)
	}

	view, err = f.sessions.Submit(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !view.Submitted {
		t.Fatalf("expected submitted view, got %+v", view)
	}
}

func TestSessionService_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.sessions.Start(ctx, "missing"); !errors.Is(err, service.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if _, err := f.sessions.Get(ctx, "nope"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	if _, err := f.sessions.Start(ctx, "cs101-midterm"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := f.forms.Delete(ctx, "cs101-midterm"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.sessions.Get(ctx, "sess-1"); !errors.Is(err, service.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound after delete, got %v", err)
	}
}

func TestParseAction(t *testing.T) {
	cases := map[string]service.Action{
		"":          service.ActionSave,
		" Next ":    service.ActionNext,
		"previous":  service.ActionPrevious,
		"SUBMIT":    service.ActionSubmit,
		"save":      service.ActionSave,
	}
	for raw, want := range cases {
		got, err := service.ParseAction(raw)
		if err != nil || got != want {
			t.Fatalf("ParseAction(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := service.ParseAction("skip"); !errors.Is(err, service.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestFormService_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.forms.Create(ctx, form.Definition{ID: "broken", Title: "Broken"})
	if !errors.Is(err, service.ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm, got %v", err)
	}
	var defErr *form.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected DefinitionError in chain, got %v", err)
	}

	if _, err := f.forms.Create(ctx, testsupport.TwoSectionForm()); !errors.Is(err, service.ErrFormExists) {
		t.Fatalf("expected ErrFormExists, got %v", err)
	}

	def := testsupport.TwoSectionForm()
	def.ID = "other"
	if _, err := f.forms.Update(ctx, "cs101-midterm", def); !errors.Is(err, service.ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm for id mismatch, got %v", err)
	}

	def.ID = ""
	def.Title = "Renamed"
	updated, err := f.forms.Update(ctx, "cs101-midterm", def)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != "cs101-midterm" || updated.Title != "Renamed" {
		t.Fatalf("unexpected updated form %+v", updated)
	}

	if _, err := f.forms.Update(ctx, "ghost", testsupport.OptionalOnlyForm()); !errors.Is(err, service.ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm for mismatched id, got %v", err)
	}
	ghost := testsupport.OptionalOnlyForm()
	ghost.ID = "ghost"
	if _, err := f.forms.Update(ctx, "ghost", ghost); !errors.Is(err, service.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if err := f.forms.Delete(ctx, "ghost"); !errors.Is(err, service.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if _, err := f.forms.Submissions(ctx, "ghost"); !errors.Is(err, service.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestFormService_Seed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	catalog, err := form.NewCatalog(testsupport.TwoSectionForm(), testsupport.OptionalOnlyForm())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	created, err := f.forms.Seed(ctx, catalog)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected only the missing form to be created, got %d", created)
	}

	list, err := f.forms.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: %d %v", len(list), err)
	}
}
