package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

type memoryFormRepo struct {
	mu    sync.RWMutex
	forms map[string]form.Definition
}

// NewMemoryFormRepo returns a FormRepo kept in process memory.
func NewMemoryFormRepo() FormRepo {
	return &memoryFormRepo{forms: make(map[string]form.Definition)}
}

func (r *memoryFormRepo) Create(_ context.Context, def form.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.forms[def.ID]; exists {
		return ErrDuplicate
	}
	r.forms[def.ID] = def.Clone()
	return nil
}

func (r *memoryFormRepo) GetByID(_ context.Context, id string) (*form.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.forms[id]
	if !ok {
		return nil, nil
	}
	out := def.Clone()
	return &out, nil
}

func (r *memoryFormRepo) List(_ context.Context) ([]form.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]form.Definition, 0, len(r.forms))
	for _, def := range r.forms {
		out = append(out, def.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryFormRepo) Update(_ context.Context, def form.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.forms[def.ID]; !exists {
		return ErrNotFound
	}
	r.forms[def.ID] = def.Clone()
	return nil
}

func (r *memoryFormRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.forms[id]; !exists {
		return ErrNotFound
	}
	delete(r.forms, id)
	return nil
}

type memorySubmissionRepo struct {
	mu          sync.RWMutex
	submissions []StoredSubmission
}

// NewMemorySubmissionRepo returns a SubmissionRepo kept in process memory.
func NewMemorySubmissionRepo() SubmissionRepo {
	return &memorySubmissionRepo{}
}

func (r *memorySubmissionRepo) Create(_ context.Context, submission wizard.Submission) (string, error) {
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = now()
	}
	submission.Answers = submission.Answers.Clone()
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, StoredSubmission{ID: id, Submission: submission})
	return id, nil
}

func (r *memorySubmissionRepo) ListByForm(_ context.Context, formID string) ([]StoredSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []StoredSubmission{}
	for _, s := range r.submissions {
		if s.FormID == formID {
			s.Answers = s.Answers.Clone()
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySubmissionRepo) CountByForm(_ context.Context, formID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, s := range r.submissions {
		if s.FormID == formID {
			n++
		}
	}
	return n, nil
}
