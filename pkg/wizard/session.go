package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-evalform/pkg/form"
)

// Session tracks one respondent walking through a definition.
type Session struct {
	mu sync.Mutex

	def     form.Definition
	sink    Sink
	id      string
	index   int
	answers form.AnswerSet

	submitting  bool
	submitted   bool
	submittedAt time.Time

	notice        notice
	noticeTimeout time.Duration
	scheduler     Scheduler
	now           func() time.Time
	listener      func(View)
}

type notice struct {
	visible   bool
	missing   []string
	expiresAt time.Time
	timer     Timer
	gen       uint64
}

// New starts a session on the first section of def.
func New(def form.Definition, sink Sink, options ...Option) (*Session, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}

	s := &Session{
		def:           def.Clone(),
		sink:          sink,
		answers:       make(form.AnswerSet),
		noticeTimeout: DefaultNoticeTimeout,
		scheduler:     realScheduler{},
		now:           time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Restore rebuilds a session from a snapshot produced by State. A notice that
// has not expired yet is re-armed for its remaining time.
func Restore(def form.Definition, state State, sink Sink, options ...Option) (*Session, error) {
	s, err := New(def, sink, options...)
	if err != nil {
		return nil, err
	}
	if state.FormID != "" && state.FormID != def.ID {
		return nil, fmt.Errorf("%w: %q != %q", ErrFormMismatch, state.FormID, def.ID)
	}
	if state.CurrentSectionIndex < 0 || state.CurrentSectionIndex >= len(def.Sections) {
		return nil, fmt.Errorf("%w: %d", ErrSectionOutOfRange, state.CurrentSectionIndex)
	}
	if state.SessionID != "" && s.id == "" {
		s.id = state.SessionID
	}

	s.index = state.CurrentSectionIndex
	// Stored answers may predate a form edit: unknown questions and values
	// the current question type rejects are dropped.
	for id, value := range state.Answers {
		q, ok := s.def.Question(id)
		if !ok {
			continue
		}
		if normalized, err := normalizeAnswer(q, value); err == nil && normalized != "" {
			s.answers[q.ID] = normalized
		}
	}
	if state.Submitted {
		s.submitted = true
		if state.SubmittedAt != nil {
			s.submittedAt = *state.SubmittedAt
		}
		return s, nil
	}

	if state.ValidationError {
		remaining := s.noticeTimeout
		if state.NoticeExpiresAt != nil {
			remaining = state.NoticeExpiresAt.Sub(s.now())
		}
		if remaining > 0 {
			s.raiseNoticeLocked(append([]string(nil), state.Missing...), remaining)
		}
	}
	return s, nil
}

// ID returns the identifier set with WithID.
func (s *Session) ID() string {
	return s.id
}

// Definition returns a copy of the form being answered.
func (s *Session) Definition() form.Definition {
	return s.def.Clone()
}

// SetAnswer records value for questionID. Text is trimmed; ratings must be an
// integer between form.RatingMin and form.RatingMax. An empty value removes
// the answer. Answering never re-validates and never clears the notice.
func (s *Session) SetAnswer(questionID, value string) error {
	s.mu.Lock()
	if err := s.mutableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	q, ok := s.def.Question(questionID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	normalized, err := normalizeAnswer(q, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if normalized == "" {
		delete(s.answers, q.ID)
	} else {
		s.answers[q.ID] = normalized
	}
	view := s.viewLocked()
	s.mu.Unlock()

	s.emit(view)
	return nil
}

// SetAnswers records several answers as one update. Every value is checked
// first; when any is rejected nothing is recorded.
func (s *Session) SetAnswers(answers form.AnswerSet) error {
	if len(answers) == 0 {
		return nil
	}
	s.mu.Lock()
	if err := s.mutableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	normalized := make(map[string]string, len(ids))
	for _, id := range ids {
		q, ok := s.def.Question(id)
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
		}
		value, err := normalizeAnswer(q, answers[id])
		if err != nil {
			s.mu.Unlock()
			return err
		}
		normalized[q.ID] = value
	}
	for id, value := range normalized {
		if value == "" {
			delete(s.answers, id)
		} else {
			s.answers[id] = value
		}
	}
	view := s.viewLocked()
	s.mu.Unlock()

	s.emit(view)
	return nil
}

// ClearAnswer removes the answer for questionID.
func (s *Session) ClearAnswer(questionID string) error {
	return s.SetAnswer(questionID, "")
}

// Next validates the current section and moves forward one section.
func (s *Session) Next() error {
	s.mu.Lock()
	if err := s.mutableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.index >= len(s.def.Sections)-1 {
		s.mu.Unlock()
		return ErrLastSection
	}
	if err := s.validateCurrentLocked(); err != nil {
		view := s.viewLocked()
		s.mu.Unlock()
		s.emit(view)
		return err
	}
	s.index++
	s.clearNoticeLocked()
	view := s.viewLocked()
	s.mu.Unlock()

	s.emit(view)
	return nil
}

// Previous moves back one section without validating.
func (s *Session) Previous() error {
	s.mu.Lock()
	if err := s.mutableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.index == 0 {
		s.mu.Unlock()
		return ErrFirstSection
	}
	s.index--
	s.clearNoticeLocked()
	view := s.viewLocked()
	s.mu.Unlock()

	s.emit(view)
	return nil
}

// Submit validates the last section and hands the answers to the sink. On sink
// failure the session stays on the last section so the call can be retried.
func (s *Session) Submit(ctx context.Context) error {
	if ctx == nil {
		return errors.New("wizard: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.mutableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.index != len(s.def.Sections)-1 {
		s.mu.Unlock()
		return ErrNotLastSection
	}
	if err := s.validateCurrentLocked(); err != nil {
		view := s.viewLocked()
		s.mu.Unlock()
		s.emit(view)
		return err
	}

	at := s.now().UTC()
	submission := Submission{
		FormID:      s.def.ID,
		SectionID:   s.def.Sections[s.index].ID,
		SessionID:   s.id,
		Answers:     s.answers.Clone(),
		Metadata:    s.def.Metadata.Clone(),
		SubmittedAt: at,
	}
	s.submitting = true
	s.mu.Unlock()

	err := s.sink.Submit(ctx, submission)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrSinkFailed, err)
	}
	s.submitted = true
	s.submittedAt = at
	s.clearNoticeLocked()
	view := s.viewLocked()
	s.mu.Unlock()

	s.emit(view)
	return nil
}

// Progress returns the completion percentage across all sections.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress(s.def, s.answers)
}

// CurrentSectionIndex returns the zero-based index of the visible section.
func (s *Session) CurrentSectionIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Submitted reports whether the session reached its terminal state.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// ValidationError reports whether the validation notice is visible.
func (s *Session) ValidationError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice.visible
}

// Answers returns a copy of the collected answers.
func (s *Session) Answers() form.AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// View returns the current UI contract.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// State returns a serialisable snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		SessionID:           s.id,
		FormID:              s.def.ID,
		CurrentSectionIndex: s.index,
		Answers:             s.answers.Clone(),
		Submitted:           s.submitted,
		ValidationError:     s.notice.visible,
	}
	if s.submitted {
		at := s.submittedAt
		state.SubmittedAt = &at
	}
	if s.notice.visible {
		state.Missing = append([]string(nil), s.notice.missing...)
		expires := s.notice.expiresAt
		state.NoticeExpiresAt = &expires
	}
	return state
}

// Close stops a pending notice timer. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice.timer != nil {
		s.notice.timer.Stop()
		s.notice.timer = nil
	}
}

func (s *Session) mutableLocked() error {
	if s.submitted {
		return ErrSubmitted
	}
	if s.submitting {
		return ErrSubmitInProgress
	}
	return nil
}

func (s *Session) validateCurrentLocked() error {
	section := s.def.Sections[s.index]
	missing := MissingAnswers(section, s.answers)
	if len(missing) == 0 {
		return nil
	}
	s.raiseNoticeLocked(missing, s.noticeTimeout)
	return &ValidationError{SectionID: section.ID, Missing: append([]string(nil), missing...)}
}

// raiseNoticeLocked shows the notice and (re)starts its timer. The generation
// counter keeps a superseded timer that already fired from clearing the newer
// notice.
func (s *Session) raiseNoticeLocked(missing []string, d time.Duration) {
	if s.notice.timer != nil {
		s.notice.timer.Stop()
	}
	s.notice.gen++
	gen := s.notice.gen
	s.notice.visible = true
	s.notice.missing = missing
	s.notice.expiresAt = s.now().Add(d)
	s.notice.timer = s.scheduler.AfterFunc(d, func() {
		s.expireNotice(gen)
	})
}

func (s *Session) clearNoticeLocked() {
	if s.notice.timer != nil {
		s.notice.timer.Stop()
	}
	s.notice.gen++
	s.notice = notice{gen: s.notice.gen}
}

func (s *Session) expireNotice(gen uint64) {
	s.mu.Lock()
	if s.notice.gen != gen || !s.notice.visible {
		s.mu.Unlock()
		return
	}
	s.notice = notice{gen: s.notice.gen}
	view := s.viewLocked()
	s.mu.Unlock()

	s.emit(view)
}

func (s *Session) emit(view View) {
	if s.listener != nil {
		s.listener(view)
	}
}

func (s *Session) viewLocked() View {
	section := s.def.Sections[s.index]
	section.Questions = append([]form.Question(nil), section.Questions...)
	last := s.index == len(s.def.Sections)-1
	valid := ValidateSection(section, s.answers)

	view := View{
		SessionID:       s.id,
		FormID:          s.def.ID,
		Title:           s.def.Title,
		Description:     s.def.Description,
		Metadata:        s.def.Metadata.Clone(),
		SectionIndex:    s.index,
		SectionCount:    len(s.def.Sections),
		Section:         section,
		Answers:         s.answers.Clone(),
		Progress:        Progress(s.def, s.answers),
		ValidationError: s.notice.visible,
		Submitted:       s.submitted,
	}
	if s.notice.visible {
		view.Missing = append([]string(nil), s.notice.missing...)
	}
	if s.submitted {
		at := s.submittedAt
		view.SubmittedAt = &at
		return view
	}

	idle := !s.submitting
	view.Controls = Controls{
		Previous: Control{Visible: s.index > 0, Enabled: s.index > 0 && idle},
		Next:     Control{Visible: !last, Enabled: !last && valid && idle},
		Submit:   Control{Visible: last, Enabled: last && valid && idle},
	}
	return view
}

func normalizeAnswer(q form.Question, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if q.Type != form.QuestionTypeRating {
		return trimmed, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < form.RatingMin || n > form.RatingMax {
		return "", fmt.Errorf("%w: %q for %q", ErrInvalidRating, value, q.ID)
	}
	return strconv.Itoa(n), nil
}
