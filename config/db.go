package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	maxRetries = 5
	retryDelay = 5 * time.Second
)

// ConnectMongo dials the document store with bounded retries and
// returns the client and the configured database handle.
func ConnectMongo(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(getMongoURI()))
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = client.Ping(pingCtx, readpref.Primary())
			cancel()
			if err == nil {
				return client, client.Database(getMongoDBName()), nil
			}
			client.Disconnect(ctx)
		}
		lastErr = err
		log.Printf("MongoDB connection attempt %d/%d failed: %v", attempt, maxRetries, err)
		time.Sleep(retryDelay)
	}
	return nil, nil, fmt.Errorf("mongodb unreachable after %d attempts: %w", maxRetries, lastErr)
}

// ConnectPostgres opens the relational mirror with bounded retries.
func ConnectPostgres() (*sql.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err := sql.Open("postgres", getPostgresConnString())
		if err == nil {
			if err = db.Ping(); err == nil {
				db.SetMaxOpenConns(25)
				db.SetMaxIdleConns(5)
				db.SetConnMaxLifetime(30 * time.Minute)
				return db, nil
			}
			db.Close()
		}
		lastErr = err
		log.Printf("Postgres connection attempt %d/%d failed: %v", attempt, maxRetries, err)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", maxRetries, lastErr)
}
