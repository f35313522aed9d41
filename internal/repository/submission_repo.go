package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goliatone/go-evalform/pkg/wizard"
)

type submissionDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	wizard.Submission `bson:",inline"`
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a submission repository over the "submissions"
// collection.
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepo) Create(ctx context.Context, submission wizard.Submission) (string, error) {
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = now()
	}
	result, err := r.collection.InsertOne(ctx, submissionDocument{Submission: submission})
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *submissionRepo) ListByForm(ctx context.Context, formID string) ([]StoredSubmission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []submissionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]StoredSubmission, 0, len(docs))
	for _, doc := range docs {
		out = append(out, StoredSubmission{ID: doc.ID.Hex(), Submission: doc.Submission})
	}
	return out, nil
}

func (r *submissionRepo) CountByForm(ctx context.Context, formID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"formId": formID})
}
