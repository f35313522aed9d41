package wizard_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-evalform/pkg/testsupport"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

func TestNotice_ClearsAfterTimeout(t *testing.T) {
	var views []wizard.View
	session, _, scheduler := newSession(t, testsupport.TwoSectionForm(), wizard.WithListener(func(v wizard.View) {
		views = append(views, v)
	}))

	if err := session.Next(); !errors.Is(err, wizard.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	timers := scheduler.Scheduled()
	if len(timers) != 1 || timers[0].Delay != wizard.DefaultNoticeTimeout {
		t.Fatalf("expected one timer of %s, got %+v", wizard.DefaultNoticeTimeout, timers)
	}

	scheduler.Fire()
	if session.ValidationError() {
		t.Fatalf("notice must clear once the timer fires")
	}
	if session.CurrentSectionIndex() != 0 {
		t.Fatalf("clearing the notice must not move the session")
	}
	last := views[len(views)-1]
	if last.ValidationError || len(last.Missing) != 0 {
		t.Fatalf("expected a cleared view after expiry, got %+v", last)
	}
}

func TestNotice_RetriggerResetsTimer(t *testing.T) {
	session, _, scheduler := newSession(t, testsupport.TwoSectionForm(), wizard.WithNoticeTimeout(2*time.Second))

	_ = session.Next()
	first := scheduler.Scheduled()[0]
	_ = session.Next()

	if scheduler.Pending() != 1 {
		t.Fatalf("expected a single pending timer after retrigger, got %d", scheduler.Pending())
	}
	if first.Stop() {
		t.Fatalf("first timer should already be stopped")
	}

	// A superseded timer that fires anyway must leave the newer notice alone.
	first.FireStale()
	if !session.ValidationError() {
		t.Fatalf("stale timer cleared the current notice")
	}

	scheduler.Fire()
	if session.ValidationError() {
		t.Fatalf("notice must clear after the current timer fires")
	}
}

func TestNotice_ClearedBySuccessfulNavigation(t *testing.T) {
	session, _, scheduler := newSession(t, testsupport.TwoSectionForm())

	_ = session.Next()
	mustAnswer(t, session, "clarity", "5")
	if !session.ValidationError() {
		t.Fatalf("answering must not clear the notice")
	}
	mustAnswer(t, session, "pace", "3")
	if err := session.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if session.ValidationError() {
		t.Fatalf("successful Next must clear the notice")
	}
	if scheduler.Pending() != 0 {
		t.Fatalf("expected notice timer to be stopped, %d pending", scheduler.Pending())
	}
}

func TestNotice_MissingReportedInView(t *testing.T) {
	session, _, _ := newSession(t, testsupport.TwoSectionForm())
	mustAnswer(t, session, "pace", "2")
	_ = session.Next()

	view := session.View()
	if diff := cmp.Diff([]string{"clarity"}, view.Missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}
