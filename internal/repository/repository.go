package repository

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

var (
	// ErrNotFound is returned by Update and Delete when no record matches.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned by Create when the id is taken.
	ErrDuplicate = errors.New("repository: duplicate id")
)

// FormRepo stores form definitions keyed by their id.
type FormRepo interface {
	Create(ctx context.Context, def form.Definition) error
	GetByID(ctx context.Context, id string) (*form.Definition, error)
	List(ctx context.Context) ([]form.Definition, error)
	Update(ctx context.Context, def form.Definition) error
	Delete(ctx context.Context, id string) error
}

// StoredSubmission is a persisted submission with its storage id.
type StoredSubmission struct {
	ID string `json:"id"`
	wizard.Submission
}

// SubmissionRepo stores finished evaluations.
type SubmissionRepo interface {
	Create(ctx context.Context, submission wizard.Submission) (string, error)
	ListByForm(ctx context.Context, formID string) ([]StoredSubmission, error)
	CountByForm(ctx context.Context, formID string) (int64, error)
}

// SubmissionSink adapts a SubmissionRepo to wizard.Sink.
func SubmissionSink(repo SubmissionRepo) wizard.Sink {
	return wizard.SinkFunc(func(ctx context.Context, submission wizard.Submission) error {
		_, err := repo.Create(ctx, submission)
		return err
	})
}

func now() time.Time {
	return time.Now().UTC()
}
