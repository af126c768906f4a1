package config

import (
	"os"
	"strconv"
	"time"
)

// Data source backends selectable via DATA_SOURCE.
const (
	SourceMongo    = "mongo"
	SourcePostgres = "postgres"
	SourceFile     = "file"
)

func Port() string {
	return getEnvWithDefault("PORT", "8080")
}

// DataSource names the dataset backend: mongo (default), postgres or
// file.
func DataSource() string {
	return getEnvWithDefault("DATA_SOURCE", SourceMongo)
}

// DataDir is the root of the static dataset for the file backend.
func DataDir() string {
	return getEnvWithDefault("DATA_DIR", "data")
}

// CacheTTL is the lifetime of cached facility lists.
func CacheTTL() time.Duration {
	return time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second
}

// Database configuration
func getPostgresConnString() string {
	host := getEnvWithDefault("DB_HOST", "localhost")
	port := getEnvWithDefault("DB_PORT", "5432")
	user := getEnvWithDefault("DB_USER", "postgres")
	password := getEnvWithDefault("DB_PASSWORD", "postgres")
	dbname := getEnvWithDefault("DB_NAME", "kawasaki")

	return "host=" + host + " port=" + port + " user=" + user +
		" password=" + password + " dbname=" + dbname + " sslmode=disable"
}

func getMongoURI() string {
	return getEnvWithDefault("MONGO_URI", "mongodb://localhost:27017")
}

func getMongoDBName() string {
	return getEnvWithDefault("MONGO_DB_NAME", "kawasaki")
}

// Helper functions
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
