package html_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/renderers/html"
	"github.com/goliatone/go-evalform/pkg/testsupport"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

func newSession(t *testing.T, def form.Definition) *wizard.Session {
	t.Helper()
	session, err := wizard.New(def, &testsupport.RecordingSink{},
		wizard.WithID("sess-42"),
		wizard.WithScheduler(&testsupport.FakeScheduler{}),
		wizard.WithClock(testsupport.FixedClock(time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC))),
	)
	if err != nil {
		t.Fatalf("wizard.New: %v", err)
	}
	return session
}

func render(t *testing.T, r *html.Renderer, view wizard.View) string {
	t.Helper()
	return testsupport.CaptureOutput(t, func(w io.Writer) error {
		return r.Render(context.Background(), w, view)
	})
}

func TestRenderer_SectionPage(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("html.New: %v", err)
	}
	session := newSession(t, testsupport.TwoSectionForm())
	if err := session.SetAnswer("pace", "4"); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}
	_ = session.Next()

	out := render(t, r, session.View())

	for _, want := range []string{
		"<title>CS101 Midterm Evaluation</title>",
		`href="/static/evalform.css"`,
		`action="/v1/sessions/sess-42/page"`,
		"Section 1 of 2: Teaching",
		"33% complete",
		`class="evalform-notice"`,
		`class="evalform-question is-missing" id="q-clarity"`,
		`name="pace" value="4" checked`,
		`value="next" aria-disabled="true"`,
		"CS101 &middot; Dr. Rivera",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, `value="previous"`) {
		t.Fatalf("first section must not render Previous")
	}
	if strings.Contains(out, `value="submit"`) {
		t.Fatalf("first section must not render Submit")
	}
}

func TestRenderer_LastSectionShowsSubmit(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("html.New: %v", err)
	}
	session := newSession(t, testsupport.TwoSectionForm())
	_ = session.SetAnswer("clarity", "5")
	_ = session.SetAnswer("pace", "4")
	if err := session.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	_ = session.SetAnswer("comments", "Loved the labs")

	out := render(t, r, session.View())
	for _, want := range []string{
		`value="previous"`,
		`value="submit" aria-disabled="true"`,
		`<textarea name="comments" rows="4">Loved the labs</textarea>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, `value="next"`) {
		t.Fatalf("last section must not render Next")
	}
}

func TestRenderer_EscapesAndSanitises(t *testing.T) {
	def := form.Definition{
		ID:    "xss",
		Title: `<script>alert("t")</script>`,
		Sections: []form.Section{{
			ID:          "only",
			Title:       "Only",
			Description: `<p>Rate <strong>honestly</strong><script>alert(1)</script><img src=x onerror=alert(2)></p>`,
			Questions: []form.Question{
				{ID: "q", Text: "<b>bold?</b>", Type: form.QuestionTypeText},
			},
		}},
	}
	r, err := html.New()
	if err != nil {
		t.Fatalf("html.New: %v", err)
	}
	out := render(t, r, newSession(t, def).View())

	if strings.Contains(out, "<script>") || strings.Contains(out, "onerror") {
		t.Fatalf("unsafe markup leaked into output\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected escaped title\n%s", out)
	}
	if !strings.Contains(out, "<p>Rate <strong>honestly</strong></p>") {
		t.Fatalf("expected sanitised description\n%s", out)
	}
	if !strings.Contains(out, "&lt;b&gt;bold?&lt;/b&gt;") {
		t.Fatalf("expected escaped question text\n%s", out)
	}
}

func TestRenderer_ThemeConfig(t *testing.T) {
	r, err := html.New(html.WithTheme(&theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{
			"--evalform-accent": "#123456",
		},
		AssetURL: func(key string) string {
			return "https://cdn.example.com/acme/" + key
		},
	}))
	if err != nil {
		t.Fatalf("html.New: %v", err)
	}
	out := render(t, r, newSession(t, testsupport.TwoSectionForm()).View())

	for _, want := range []string{
		`href="https://cdn.example.com/acme/evalform.css"`,
		"--evalform-accent: #123456;",
		`class="evalform theme-acme variant-dark"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestRenderer_ThanksPage(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("html.New: %v", err)
	}
	session := newSession(t, testsupport.OptionalOnlyForm())
	if err := session.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	out := render(t, r, session.View())
	for _, want := range []string{
		"Thank you!",
		"Your evaluation for Open Feedback has been submitted.",
		"Received Fri, 16 Oct 2026 08:00:00 UTC",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "<form") {
		t.Fatalf("thank-you page must not render the form")
	}
}

func TestRenderer_AssetsFS(t *testing.T) {
	f, err := html.AssetsFS().Open(html.StylesheetName)
	if err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
	_ = f.Close()
}
