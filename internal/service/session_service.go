package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-evalform/internal/cache"
	"github.com/goliatone/go-evalform/internal/repository"
	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

// Action names a navigation step applied by Step.
type Action string

const (
	ActionSave     Action = "save"
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
	ActionSubmit   Action = "submit"
)

// ParseAction maps user input onto an Action. Empty input means save.
func ParseAction(raw string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(raw))); a {
	case "":
		return ActionSave, nil
	case ActionSave, ActionNext, ActionPrevious, ActionSubmit:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
}

const lockStripes = 64

// SessionService runs respondent sessions across requests. Each request
// restores the session from the cache, applies one operation and stores the
// new snapshot. Requests for the same session are serialised.
type SessionService struct {
	forms         repository.FormRepo
	sessions      cache.SessionCache
	sink          wizard.Sink
	logger        *zap.Logger
	noticeTimeout time.Duration
	now           func() time.Time
	newID         func() string

	locks [lockStripes]sync.Mutex
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithNoticeTimeout overrides wizard.DefaultNoticeTimeout.
func WithNoticeTimeout(d time.Duration) SessionOption {
	return func(s *SessionService) {
		if d > 0 {
			s.noticeTimeout = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the uuid session id generator.
func WithIDGenerator(fn func() string) SessionOption {
	return func(s *SessionService) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewSessionService creates a new session service
func NewSessionService(forms repository.FormRepo, sessions cache.SessionCache, sink wizard.Sink, logger *zap.Logger, opts ...SessionOption) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionService{
		forms:         forms,
		sessions:      sessions,
		sink:          sink,
		logger:        logger,
		noticeTimeout: wizard.DefaultNoticeTimeout,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start opens a new session on the first section of formID.
func (s *SessionService) Start(ctx context.Context, formID string) (wizard.View, error) {
	def, err := s.form(ctx, formID)
	if err != nil {
		return wizard.View{}, err
	}

	id := s.newID()
	session, err := wizard.New(def, s.sink, s.sessionOptions(id)...)
	if err != nil {
		return wizard.View{}, fmt.Errorf("service: start session: %w", err)
	}
	defer session.Close()

	if err := s.sessions.Set(ctx, session.State()); err != nil {
		return wizard.View{}, fmt.Errorf("service: store session: %w", err)
	}
	s.logger.Info("session started", zap.String("session_id", id), zap.String("form_id", formID))
	return session.View(), nil
}

// Get returns the current view of a session.
func (s *SessionService) Get(ctx context.Context, id string) (wizard.View, error) {
	return s.apply(ctx, id, nil)
}

// Answer records one answer.
func (s *SessionService) Answer(ctx context.Context, id, questionID, value string) (wizard.View, error) {
	return s.apply(ctx, id, func(_ context.Context, session *wizard.Session) error {
		return session.SetAnswer(questionID, value)
	})
}

// Next moves forward. A blocked move returns the view with the notice raised
// together with a *wizard.ValidationError.
func (s *SessionService) Next(ctx context.Context, id string) (wizard.View, error) {
	return s.apply(ctx, id, func(_ context.Context, session *wizard.Session) error {
		return session.Next()
	})
}

// Previous moves back without validating.
func (s *SessionService) Previous(ctx context.Context, id string) (wizard.View, error) {
	return s.apply(ctx, id, func(_ context.Context, session *wizard.Session) error {
		return session.Previous()
	})
}

// Submit validates the last section and hands the answers to the sink.
func (s *SessionService) Submit(ctx context.Context, id string) (wizard.View, error) {
	return s.apply(ctx, id, s.submit)
}

// Step applies answers for the visible section then runs action, as a single
// update. A rejected answer leaves the session untouched. It backs HTML form
// posts.
func (s *SessionService) Step(ctx context.Context, id string, answers form.AnswerSet, action Action) (wizard.View, error) {
	return s.apply(ctx, id, func(ctx context.Context, session *wizard.Session) error {
		if err := session.SetAnswers(answers); err != nil {
			return err
		}
		switch action {
		case ActionSave, "":
			return nil
		case ActionNext:
			return session.Next()
		case ActionPrevious:
			return session.Previous()
		case ActionSubmit:
			return s.submit(ctx, session)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}
	})
}

func (s *SessionService) submit(ctx context.Context, session *wizard.Session) error {
	err := session.Submit(ctx)
	switch {
	case err == nil:
		s.logger.Info("evaluation submitted",
			zap.String("session_id", session.ID()),
			zap.String("form_id", session.Definition().ID),
		)
	case errors.Is(err, wizard.ErrValidation):
	default:
		s.logger.Warn("submission failed",
			zap.String("session_id", session.ID()),
			zap.Error(err),
		)
	}
	return err
}

// apply restores the session, runs op and stores the new snapshot even when op
// fails, so a raised notice is persisted with the view returned.
func (s *SessionService) apply(ctx context.Context, id string, op func(context.Context, *wizard.Session) error) (wizard.View, error) {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return wizard.View{}, fmt.Errorf("service: load session: %w", err)
	}
	if state == nil {
		return wizard.View{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	def, err := s.form(ctx, state.FormID)
	if err != nil {
		return wizard.View{}, err
	}
	session, err := s.restore(id, def, *state)
	if err != nil {
		return wizard.View{}, fmt.Errorf("service: restore session %s: %w", id, err)
	}
	defer session.Close()

	if op == nil {
		return session.View(), nil
	}

	opErr := op(ctx, session)
	if err := s.sessions.Set(ctx, session.State()); err != nil {
		return wizard.View{}, fmt.Errorf("service: store session: %w", err)
	}
	return session.View(), opErr
}

// restore rebuilds the session from state. When the form has lost sections
// since state was stored, the session resumes on the nearest remaining section
// with the notice cleared.
func (s *SessionService) restore(id string, def form.Definition, state wizard.State) (*wizard.Session, error) {
	session, err := wizard.Restore(def, state, s.sink, s.sessionOptions(id)...)
	if !errors.Is(err, wizard.ErrSectionOutOfRange) {
		return session, err
	}

	index := len(def.Sections) - 1
	if state.CurrentSectionIndex < 0 {
		index = 0
	}
	s.logger.Warn("session section out of range, resuming on last section",
		zap.String("session_id", id),
		zap.String("form_id", def.ID),
		zap.Int("stored_index", state.CurrentSectionIndex),
		zap.Int("section_index", index),
	)
	state.CurrentSectionIndex = index
	state.ValidationError = false
	state.Missing = nil
	state.NoticeExpiresAt = nil
	return wizard.Restore(def, state, s.sink, s.sessionOptions(id)...)
}

func (s *SessionService) form(ctx context.Context, formID string) (form.Definition, error) {
	def, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return form.Definition{}, err
	}
	if def == nil {
		return form.Definition{}, fmt.Errorf("%w: %s", ErrFormNotFound, formID)
	}
	return *def, nil
}

func (s *SessionService) sessionOptions(id string) []wizard.Option {
	return []wizard.Option{
		wizard.WithID(id),
		wizard.WithNoticeTimeout(s.noticeTimeout),
		wizard.WithClock(s.now),
	}
}

func (s *SessionService) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.locks[h.Sum32()%lockStripes]
}
