package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goliatone/go-evalform/pkg/form"
)

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a form repository over the "forms" collection. The form
// id is the document _id.
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{
		collection: db.Collection("forms"),
	}
}

func (r *formRepo) Create(ctx context.Context, def form.Definition) error {
	_, err := r.collection.InsertOne(ctx, def)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*form.Definition, error) {
	var def form.Definition
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&def)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *formRepo) List(ctx context.Context) ([]form.Definition, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var defs []form.Definition
	if err := cursor.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *formRepo) Update(ctx context.Context, def form.Definition) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": def.ID}, def)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *formRepo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
