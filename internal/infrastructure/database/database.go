package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gallery/pkg/logger"
)

const ObjectCollection = "objects"

type Database struct {
	DBName       string
	QueryTimeout time.Duration
	Client       *mongo.Client
}

func Connect(cfg Config) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectionTimeout)*time.Millisecond)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(time.Duration(cfg.ConnectionTimeout) * time.Millisecond).
		SetBSONOptions(&options.BSONOptions{
			UseJSONStructTags: true,
			NilSliceAsEmpty:   true,
		})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	qCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.QueryTimeout)*time.Millisecond)
	defer cancel()

	if err := client.Ping(qCtx, nil); err != nil {
		return nil, err
	}

	db := &Database{
		Client:       client,
		DBName:       cfg.DBName,
		QueryTimeout: time.Duration(cfg.QueryTimeout) * time.Millisecond,
	}

	if err := initObjectCollection(db); err != nil {
		return nil, err
	}

	logger.Info("connected to database", "db", cfg.DBName)

	return db, nil
}

func (db *Database) collection() *mongo.Collection {
	return db.Client.Database(db.DBName).Collection(ObjectCollection)
}

func initObjectCollection(db *Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), db.QueryTimeout)
	defer cancel()

	collections, err := db.Client.Database(db.DBName).ListCollectionNames(ctx, bson.M{"name": ObjectCollection})
	if err != nil {
		return err
	}

	if len(collections) == 0 {
		collOpts := options.CreateCollection().SetValidator(bson.M{
			"$jsonSchema": bson.M{
				"bsonType": "object",
				"required": []string{"_id", "original_name", "mime_type", "size", "status", "created_at", "updated_at"},
				"properties": bson.M{
					"_id":           bson.M{"bsonType": "string"},
					"title":         bson.M{"bsonType": "string", "maxLength": 120},
					"description":   bson.M{"bsonType": "string", "maxLength": 500},
					"original_name": bson.M{"bsonType": "string"},
					"mime_type":     bson.M{"bsonType": "string"},
					"size":          bson.M{"bsonType": []string{"int", "long"}},
					"width":         bson.M{"bsonType": []string{"int", "long", "null"}},
					"height":        bson.M{"bsonType": []string{"int", "long", "null"}},
					"bucket":        bson.M{"bsonType": "string"},
					"blob_key":      bson.M{"bsonType": "string"},
					"blob_url":      bson.M{"bsonType": "string"},
					"status": bson.M{
						"enum": []string{"PENDING", "PROCESSING", "READY", "FAILED"},
					},
					"created_at": bson.M{"bsonType": "date"},
					"updated_at": bson.M{"bsonType": "date"},
				},
			},
		})

		if err := db.Client.Database(db.DBName).CreateCollection(ctx, ObjectCollection, collOpts); err != nil {
			return err
		}
	}

	_, err = db.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})

	return err
}

func (db *Database) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}

func (db *Database) Stop() error {
	if err := db.Client.Disconnect(context.Background()); err != nil {
		return err
	}

	return nil
}
