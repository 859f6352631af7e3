package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gallery/internal/domain/model"
	"gallery/pkg/logger"
)

type ObjectRetriever struct {
	db *Database
}

func NewObjectRetriever(db *Database) *ObjectRetriever {
	return &ObjectRetriever{db: db}
}

func (r *ObjectRetriever) GetByID(ctx context.Context, id string) (*model.Object, error) {
	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	var object model.Object

	err := r.db.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&object)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}

		logger.Error("failed to retrieve object by id", "id", id, "err", err)

		return nil, err
	}

	return &object, nil
}
