package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("wizard: required answers missing")
	// ErrSubmitted is returned by any mutation after a successful submit.
	ErrSubmitted = errors.New("wizard: form already submitted")
	// ErrSubmitInProgress signals a concurrent submit is waiting on the sink.
	ErrSubmitInProgress = errors.New("wizard: submit in progress")
	// ErrFirstSection is returned by Previous on the first section.
	ErrFirstSection = errors.New("wizard: already on the first section")
	// ErrLastSection is returned by Next on the last section; use Submit.
	ErrLastSection = errors.New("wizard: already on the last section")
	// ErrNotLastSection is returned by Submit before the last section.
	ErrNotLastSection = errors.New("wizard: submit is only available on the last section")
	// ErrUnknownQuestion is returned when an answer targets a question the form
	// does not define.
	ErrUnknownQuestion = errors.New("wizard: unknown question")
	// ErrInvalidRating is returned for rating answers outside 1-5.
	ErrInvalidRating = errors.New("wizard: rating must be an integer between 1 and 5")
	// ErrSinkFailed wraps errors returned by the submission sink.
	ErrSinkFailed = errors.New("wizard: submission sink failed")
	// ErrNilSink is returned when a session is built without a submission sink.
	ErrNilSink = errors.New("wizard: submission sink is nil")
	// ErrFormMismatch is returned when restoring state saved for another form.
	ErrFormMismatch = errors.New("wizard: state belongs to a different form")
	// ErrSectionOutOfRange is returned when restored state points past the
	// definition's sections.
	ErrSectionOutOfRange = errors.New("wizard: section index out of range")
)

// ValidationError reports the required questions left unanswered in the
// section the respondent tried to leave.
type ValidationError struct {
	SectionID string
	Missing   []string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("wizard: section %q is missing required answers: %s", e.SectionID, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
