package database

import (
	"context"

	"gallery/internal/domain/model"
	"gallery/pkg/logger"
)

type ObjectWriter struct {
	db *Database
}

func NewObjectWriter(db *Database) *ObjectWriter {
	return &ObjectWriter{db: db}
}

func (w *ObjectWriter) Create(ctx context.Context, object *model.Object) error {
	ctx, cancel := context.WithTimeout(ctx, w.db.QueryTimeout)
	defer cancel()

	if _, err := w.db.collection().InsertOne(ctx, object); err != nil {
		logger.Error("failed to insert object", "id", object.ID, "err", err)

		return err
	}

	return nil
}
