package database

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gallery/internal/domain/dto"
	"gallery/internal/domain/model"
	"gallery/pkg/logger"
)

type ObjectLister struct {
	db *Database
}

func NewObjectLister(db *Database) *ObjectLister {
	return &ObjectLister{db: db}
}

// List returns one page of objects, newest first, and the total number of
// objects matching the filter.
func (l *ObjectLister) List(ctx context.Context, query dto.ListQuery) ([]model.Object, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, l.db.QueryTimeout)
	defer cancel()

	filter := listFilter(query)
	coll := l.db.collection()

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		logger.Error("failed to count objects", "err", err)

		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		logger.Error("failed to list objects", "err", err)

		return nil, 0, err
	}
	defer cursor.Close(ctx)

	objects := make([]model.Object, 0, query.Limit)
	if err = cursor.All(ctx, &objects); err != nil {
		logger.Error("failed to decode objects", "err", err)

		return nil, 0, err
	}

	return objects, total, nil
}

func listFilter(query dto.ListQuery) bson.M {
	filter := bson.M{}

	if query.Status != "" {
		filter["status"] = query.Status
	}

	if query.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(query.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	return filter
}
