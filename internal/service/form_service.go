package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-evalform/internal/repository"
	"github.com/goliatone/go-evalform/pkg/form"
)

// FormService handles questionnaire administration.
type FormService struct {
	forms       repository.FormRepo
	submissions repository.SubmissionRepo
	logger      *zap.Logger
}

// NewFormService creates a new form service
func NewFormService(forms repository.FormRepo, submissions repository.SubmissionRepo, logger *zap.Logger) *FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{
		forms:       forms,
		submissions: submissions,
		logger:      logger,
	}
}

// Create validates and stores a new definition.
func (s *FormService) Create(ctx context.Context, def form.Definition) (form.Definition, error) {
	def.Normalize()
	if err := def.Validate(); err != nil {
		return form.Definition{}, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	if err := s.forms.Create(ctx, def); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return form.Definition{}, fmt.Errorf("%w: %s", ErrFormExists, def.ID)
		}
		return form.Definition{}, err
	}
	s.logger.Info("form created", zap.String("form_id", def.ID), zap.Int("sections", def.SectionCount()))
	return def, nil
}

// Get retrieves a definition by id.
func (s *FormService) Get(ctx context.Context, id string) (form.Definition, error) {
	def, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return form.Definition{}, err
	}
	if def == nil {
		return form.Definition{}, fmt.Errorf("%w: %s", ErrFormNotFound, id)
	}
	return *def, nil
}

// List returns every stored definition ordered by id.
func (s *FormService) List(ctx context.Context) ([]form.Definition, error) {
	return s.forms.List(ctx)
}

// Update replaces the definition stored under id. An empty def.ID takes id;
// a different one is rejected.
func (s *FormService) Update(ctx context.Context, id string, def form.Definition) (form.Definition, error) {
	if def.ID == "" {
		def.ID = id
	}
	def.Normalize()
	if def.ID != id {
		return form.Definition{}, fmt.Errorf("%w: id %q does not match path %q", ErrInvalidForm, def.ID, id)
	}
	if err := def.Validate(); err != nil {
		return form.Definition{}, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	if err := s.forms.Update(ctx, def); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return form.Definition{}, fmt.Errorf("%w: %s", ErrFormNotFound, id)
		}
		return form.Definition{}, err
	}
	s.logger.Info("form updated", zap.String("form_id", id))
	return def, nil
}

// Delete removes a definition. Sessions already running on it fail on their
// next request.
func (s *FormService) Delete(ctx context.Context, id string) error {
	if err := s.forms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrFormNotFound, id)
		}
		return err
	}
	s.logger.Info("form deleted", zap.String("form_id", id))
	return nil
}

// Submissions lists the stored submissions of a form.
func (s *FormService) Submissions(ctx context.Context, formID string) ([]repository.StoredSubmission, error) {
	if _, err := s.Get(ctx, formID); err != nil {
		return nil, err
	}
	return s.submissions.ListByForm(ctx, formID)
}

// Seed stores every catalog definition not present yet and reports how many
// were created.
func (s *FormService) Seed(ctx context.Context, catalog *form.Catalog) (int, error) {
	created := 0
	for _, def := range catalog.All() {
		if err := s.forms.Create(ctx, def); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				s.logger.Debug("seed skipped existing form", zap.String("form_id", def.ID))
				continue
			}
			return created, fmt.Errorf("service: seed %s: %w", def.ID, err)
		}
		created++
	}
	s.logger.Info("forms seeded", zap.Int("created", created), zap.Int("total", catalog.Len()))
	return created, nil
}
