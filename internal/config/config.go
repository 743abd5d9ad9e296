// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	LogLevel           string
	MaxUploadSizeBytes int64

	// StatementSource labels transactions parsed from uploads when the
	// request does not name a source.
	StatementSource string

	// Detection tuning.
	DeviationMinSamples     int
	VendorDistanceThreshold int
	SingleAmountFallback    bool
}

// Load reads configuration from a .env file if present, then the OS
// environment, falling back to defaults.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: no .env file found, relying on OS environment variables and defaults")
	}

	maxUploadSizeBytes, err := strconv.ParseInt(getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760"), 10, 64)
	if err != nil || maxUploadSizeBytes <= 0 {
		log.Printf("WARNING: invalid MAX_UPLOAD_SIZE_BYTES, using default 10MB")
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	return &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,

		StatementSource: getEnv("STATEMENT_SOURCE", "upload"),

		DeviationMinSamples:     getEnvAsInt("DEVIATION_MIN_SAMPLES", 5),
		VendorDistanceThreshold: getEnvAsInt("VENDOR_DISTANCE_THRESHOLD", 2),
		SingleAmountFallback:    getEnvAsBool("SINGLE_AMOUNT_FALLBACK", false),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}
