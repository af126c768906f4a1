package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"kawasaki_site/models"
)

const mongoQueryTimeout = 10 * time.Second

// MongoSource loads facility and menu partitions from the document
// store, one ward-filtered query per partition.
type MongoSource struct {
	db *mongo.Database
}

// NewMongoSource wraps a connected database handle.
func NewMongoSource(db *mongo.Database) *MongoSource {
	return &MongoSource{db: db}
}

func (s *MongoSource) LoadWard(ctx context.Context, ward string) ([]models.RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoQueryTimeout)
	defer cancel()

	cursor, err := s.db.Collection("facilities").Find(ctx, bson.M{"ward": ward})
	if err != nil {
		return nil, &models.UpstreamError{Op: "mongo: load facilities for " + ward, Err: err}
	}
	defer cursor.Close(ctx)

	var records []models.RawRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, &models.UpstreamError{Op: "mongo: decode facilities for " + ward, Err: err}
	}
	return records, nil
}

func (s *MongoSource) LoadMonth(ctx context.Context, month string) ([]models.RawMenu, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoQueryTimeout)
	defer cancel()

	cursor, err := s.db.Collection("menus").Find(ctx, bson.M{"month": month})
	if err != nil {
		return nil, &models.UpstreamError{Op: "mongo: load menus for " + month, Err: err}
	}
	defer cursor.Close(ctx)

	var menus []models.RawMenu
	if err := cursor.All(ctx, &menus); err != nil {
		return nil, &models.UpstreamError{Op: "mongo: decode menus for " + month, Err: err}
	}
	return menus, nil
}
