package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StoreSQLite = "sqlite"
	StoreDynamo = "dynamodb"
	StoreNone   = "none"
)

// Config holds everything read from the environment. CLI flags override
// individual fields after Load.
type Config struct {
	Environment  string
	Port         string
	AllowOrigins string

	// MediaPath is where analyze looks when given no paths.
	MediaPath string

	StoreBackend     string
	StorePath        string
	DynamoDBEndpoint string
	DynamoDBRegion   string
	DynamoDBTable    string

	RootPolicy string
	Workers    int

	SentryDSN string
}

// Load reads .env if present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not read .env: %v", err)
	}

	return &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		Port:             getEnv("PORT", "8080"),
		AllowOrigins:     getEnv("ALLOW_ORIGINS", "*"),
		MediaPath:        getEnv("MEDIA_PATH", "."),
		StoreBackend:     getEnv("STORE_BACKEND", StoreSQLite),
		StorePath:        getEnv("STORE_PATH", "./out/reports.db"),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		DynamoDBRegion:   getEnv("DYNAMODB_REGION", "us-east-1"),
		DynamoDBTable:    getEnv("DYNAMODB_TABLE", "harmonycheck-reports"),
		RootPolicy:       getEnv("ROOT_POLICY", "tertian"),
		Workers:          getEnvInt("WORKERS", 0),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", key, value, err)
		return defaultValue
	}
	return n
}
