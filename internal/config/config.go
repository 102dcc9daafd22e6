// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
)

// DefaultFixturePath is where the seeder looks for posts.json.
const DefaultFixturePath = "blog/scripts/posts.json"

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	// DBDSN, when set, is passed to the driver as-is.
	DBDSN string

	RedisAddr        string
	ElasticsearchURL string
	ServerPort       string
}

// Load builds a Config from environment variables, falling back to the
// local development defaults.
func Load() Config {
	return Config{
		DBDriver:         getenv("DB_DRIVER", "postgres"),
		DBHost:           getenv("DB_HOST", "localhost"),
		DBPort:           getenv("DB_PORT", "5432"),
		DBUser:           getenv("DB_USER", "bloguser"),
		DBPassword:       getenv("DB_PASSWORD", "blogpass"),
		DBName:           getenv("DB_NAME", "blogdb"),
		DBDSN:            os.Getenv("DB_DSN"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		ElasticsearchURL: os.Getenv("ELASTICSEARCH_URL"),
		ServerPort:       getenv("SERVER_PORT", "8080"),
	}
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case "sqlite3":
		return c.DBName + ".db?_foreign_keys=on"
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
