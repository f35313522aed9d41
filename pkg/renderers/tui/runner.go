package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

// Navigation labels offered after each section.
const (
	ActionNext     = "Next section"
	ActionPrevious = "Previous section"
	ActionSubmit   = "Submit evaluation"
	ActionQuit     = "Quit without submitting"
)

// Rating prompts always end with a way to leave the question unanswered.
// Required questions are still enforced when leaving the section.
const (
	skipRating  = "Skip"
	answerLater = "Answer later"
)

var ratingOptions = []string{"1 - Poor", "2 - Fair", "3 - Good", "4 - Very good", "5 - Excellent"}

// Runner walks a wizard.Session in the terminal: it prompts every question of
// the visible section, then asks where to go next.
type Runner struct {
	driver    PromptDriver
	theme     Theme
	multiline bool
}

// New constructs a runner with the survey driver.
func New(options ...Option) *Runner {
	r := &Runner{driver: SurveyDriver(nil)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Run drives session until it is submitted or the user quits. A refused
// submission (sink failure) is reported and the user may retry.
func (r *Runner) Run(ctx context.Context, session *wizard.Session) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if session == nil {
		return ErrNilSession
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := session.View()
		if view.Submitted {
			return r.info(ctx, thankYou(view))
		}

		if err := r.info(ctx, sectionHeader(view)); err != nil {
			return err
		}
		for _, q := range view.Section.Questions {
			if err := r.promptQuestion(ctx, session, q, view.Answers); err != nil {
				return err
			}
		}

		done, err := r.navigate(ctx, session)
		if err != nil {
			return err
		}
		if done {
			return r.info(ctx, thankYou(session.View()))
		}
	}
}

func (r *Runner) promptQuestion(ctx context.Context, session *wizard.Session, q form.Question, answers form.AnswerSet) error {
	current, _ := answers.Get(q.ID)
	label := questionLabel(q)

	switch q.Type {
	case form.QuestionTypeRating:
		unset := skipRating
		if q.Required {
			unset = answerLater
		}
		options := append(append([]string(nil), ratingOptions...), unset)
		def := len(ratingOptions)
		if n, err := strconv.Atoi(current); err == nil && n >= form.RatingMin && n <= form.RatingMax {
			def = n - form.RatingMin
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: def})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(ratingOptions) {
			return session.ClearAnswer(q.ID)
		}
		return session.SetAnswer(q.ID, strconv.Itoa(idx+form.RatingMin))
	default:
		var (
			value string
			err   error
		)
		if r.multiline {
			value, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current})
		} else {
			value, err = r.driver.Input(ctx, InputConfig{Message: label, Default: current})
		}
		if err != nil {
			return err
		}
		return session.SetAnswer(q.ID, value)
	}
}

// navigate asks for the next move and applies it. It reports true once the
// session has been submitted.
func (r *Runner) navigate(ctx context.Context, session *wizard.Session) (bool, error) {
	view := session.View()
	var actions []string
	if view.Controls.Next.Visible {
		actions = append(actions, ActionNext)
	}
	if view.Controls.Submit.Visible {
		actions = append(actions, ActionSubmit)
	}
	if view.Controls.Previous.Visible {
		actions = append(actions, ActionPrevious)
	}
	actions = append(actions, ActionQuit)

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: fmt.Sprintf("Progress %s. What next?", progressBar(view.Progress)),
		Options: actions,
	})
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(actions) {
		return false, fmt.Errorf("tui: unknown action index %d", idx)
	}

	switch actions[idx] {
	case ActionNext:
		return false, r.report(ctx, session.Next())
	case ActionPrevious:
		return false, r.report(ctx, session.Previous())
	case ActionSubmit:
		err := session.Submit(ctx)
		if err == nil {
			return true, nil
		}
		var vErr *wizard.ValidationError
		if errors.As(err, &vErr) {
			return false, r.report(ctx, err)
		}
		if !errors.Is(err, wizard.ErrSinkFailed) {
			return false, err
		}
		if infoErr := r.warn(ctx, fmt.Sprintf("Submission failed: %v", err)); infoErr != nil {
			return false, infoErr
		}
		retry, cErr := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try submitting again?", Default: true})
		if cErr != nil {
			return false, cErr
		}
		if !retry {
			return false, ErrAborted
		}
		return false, nil
	default:
		return false, ErrAborted
	}
}

// report turns a blocked transition into a message. Other errors propagate.
func (r *Runner) report(ctx context.Context, err error) error {
	var vErr *wizard.ValidationError
	if errors.As(err, &vErr) {
		return r.warn(ctx, "Please answer the required questions: "+strings.Join(vErr.Missing, ", "))
	}
	return err
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Runner) warn(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func questionLabel(q form.Question) string {
	if q.Required {
		return q.Text + " *"
	}
	return q.Text
}

func sectionHeader(view wizard.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nSection %d of %d: %s", view.Title, view.SectionIndex+1, view.SectionCount, view.Section.Title)
	if desc := strings.TrimSpace(view.Section.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
	}
	return b.String()
}

func thankYou(view wizard.View) string {
	return fmt.Sprintf("Thank you! Your evaluation for %q has been submitted.", view.Title)
}

func progressBar(pct int) string {
	const width = 20
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "] " + strconv.Itoa(pct) + "%"
}
