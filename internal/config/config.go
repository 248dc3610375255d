package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all runtime settings, loaded once at startup from the environment.
type Config struct {
	HTTPPort    string
	DatabaseDSN string
	CORSOrigins []string

	// StockAllowNegative relaxes the insufficient-stock check on exports.
	// Off by default: an order that would drive stock below zero is rejected.
	StockAllowNegative bool

	// StatsTimezone is the IANA zone used to cut dashboard month windows.
	StatsTimezone string
}

// Load reads settings from environment variables, applying development defaults.
func Load() *Config {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "postgres")
	dbSslMode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPassword, dbHost, dbPort, dbName, dbSslMode)

	origins := strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		HTTPPort:           getEnv("PORT", "8080"),
		DatabaseDSN:        dsn,
		CORSOrigins:        origins,
		StockAllowNegative: getEnv("STOCK_ALLOW_NEGATIVE", "false") == "true",
		StatsTimezone:      getEnv("STATS_TIMEZONE", "UTC"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
