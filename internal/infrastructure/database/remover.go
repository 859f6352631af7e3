package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gallery/internal/domain/model"
	"gallery/pkg/logger"
)

type ObjectRemover struct {
	db *Database
}

func NewObjectRemover(db *Database) *ObjectRemover {
	return &ObjectRemover{db: db}
}

// Remove deletes the record and returns it as it was before deletion.
func (r *ObjectRemover) Remove(ctx context.Context, id string) (*model.Object, error) {
	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	var object model.Object

	err := r.db.collection().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&object)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}

		logger.Error("failed to remove object", "id", id, "err", err)

		return nil, err
	}

	return &object, nil
}
