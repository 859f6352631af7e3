package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gallery/internal/domain/model"
	"gallery/pkg/logger"
)

type ObjectUpdater struct {
	db *Database
}

func NewObjectUpdater(db *Database) *ObjectUpdater {
	return &ObjectUpdater{db: db}
}

func (u *ObjectUpdater) Update(ctx context.Context, id string, update model.ObjectUpdate) (*model.Object, error) {
	ctx, cancel := context.WithTimeout(ctx, u.db.QueryTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if len(update.FromStatuses) > 0 {
		filter["status"] = bson.M{"$in": update.FromStatuses}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var object model.Object

	err := u.db.collection().FindOneAndUpdate(ctx, filter, bson.M{"$set": setFields(update)}, opts).Decode(&object)
	if err == nil {
		return &object, nil
	}

	if !errors.Is(err, mongo.ErrNoDocuments) {
		logger.Error("failed to update object", "id", id, "err", err)

		return nil, err
	}

	if len(update.FromStatuses) == 0 {
		return nil, model.ErrNotFound
	}

	// The guard did not match; tell a lost race apart from a missing record.
	n, err := u.db.collection().CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return nil, model.ErrNotFound
	}

	return nil, model.ErrStatusConflict
}

func setFields(update model.ObjectUpdate) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}

	if update.Title != nil {
		set["title"] = *update.Title
	}

	if update.Description != nil {
		set["description"] = *update.Description
	}

	if update.Status != nil {
		set["status"] = *update.Status
	}

	if update.BlobKey != nil {
		set["blob_key"] = *update.BlobKey
	}

	if update.BlobURL != nil {
		set["blob_url"] = *update.BlobURL
	}

	if update.Width != nil {
		set["width"] = *update.Width
	}

	if update.Height != nil {
		set["height"] = *update.Height
	}

	return set
}
