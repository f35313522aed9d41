package wizard

import (
	"time"

	"github.com/goliatone/go-evalform/pkg/form"
)

// State is the serialisable snapshot of a session. Restore rebuilds a Session
// from it.
type State struct {
	SessionID           string         `json:"sessionId,omitempty"`
	FormID              string         `json:"formId"`
	CurrentSectionIndex int            `json:"currentSectionIndex"`
	Answers             form.AnswerSet `json:"answers"`
	Submitted           bool           `json:"submitted"`
	SubmittedAt         *time.Time     `json:"submittedAt,omitempty"`
	ValidationError     bool           `json:"validationError"`
	Missing             []string       `json:"missing,omitempty"`
	NoticeExpiresAt     *time.Time     `json:"noticeExpiresAt,omitempty"`
}

// Control describes one navigation button. Enabled mirrors the validation of
// the current section; invoking a visible but disabled control still raises
// the notice.
type Control struct {
	Visible bool `json:"visible"`
	Enabled bool `json:"enabled"`
}

// Controls groups the navigation buttons. On the last section Next is hidden
// and Submit takes its place.
type Controls struct {
	Previous Control `json:"previous"`
	Next     Control `json:"next"`
	Submit   Control `json:"submit"`
}

// View is everything a shell needs to draw the wizard.
type View struct {
	SessionID       string         `json:"sessionId,omitempty"`
	FormID          string         `json:"formId"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Metadata        form.Metadata  `json:"metadata"`
	SectionIndex    int            `json:"sectionIndex"`
	SectionCount    int            `json:"sectionCount"`
	Section         form.Section   `json:"section"`
	Answers         form.AnswerSet `json:"answers"`
	Progress        int            `json:"progress"`
	ValidationError bool           `json:"validationError"`
	Missing         []string       `json:"missing,omitempty"`
	Controls        Controls       `json:"controls"`
	Submitted       bool           `json:"submitted"`
	SubmittedAt     *time.Time     `json:"submittedAt,omitempty"`
}

// IsLastSection reports whether the view shows the final section.
func (v View) IsLastSection() bool {
	return v.SectionIndex == v.SectionCount-1
}
