package wizard

import (
	"context"
	"time"

	"github.com/goliatone/go-evalform/pkg/form"
)

// Submission is the payload handed to a Sink once the last section validates.
type Submission struct {
	FormID      string         `json:"formId" bson:"formId"`
	SectionID   string         `json:"sectionId,omitempty" bson:"sectionId,omitempty"`
	SessionID   string         `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	Answers     form.AnswerSet `json:"answers" bson:"answers"`
	Metadata    form.Metadata  `json:"metadata" bson:"metadata"`
	SubmittedAt time.Time      `json:"submittedAt" bson:"submittedAt"`
}

// Sink receives finished answer sets. Implementations may call the network;
// the session does not care.
type Sink interface {
	Submit(ctx context.Context, submission Submission) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, submission Submission) error

// Submit calls f.
func (f SinkFunc) Submit(ctx context.Context, submission Submission) error {
	return f(ctx, submission)
}
