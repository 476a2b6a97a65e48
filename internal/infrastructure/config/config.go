package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	DBPath string

	// Vision extraction
	VisionURL           string  // OpenAI-compatible endpoint, e.g. "http://localhost:1234/v1"
	VisionModel         string  // model name, e.g. "qwen2.5-vl-7b"
	VisionAPIKey        string  // empty for local servers that skip auth
	VisionWorkers       int     // concurrent extraction calls; 1 keeps them strictly sequential
	ConfidenceWarnBelow float64 // advisory: log when extraction confidence falls below this
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:       mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:     mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:              getenvDefault("DB_PATH", "intellimark.db"),
		VisionURL:           getenvDefault("VISION_URL", "http://localhost:1234/v1"),
		VisionModel:         getenvDefault("VISION_MODEL", "qwen2.5-vl-7b"),
		VisionAPIKey:        os.Getenv("VISION_API_KEY"),
		VisionWorkers:       getenvInt("VISION_WORKERS", 1),
		ConfidenceWarnBelow: getenvFloat("CONFIDENCE_WARN_BELOW", 0.5),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getenvFloat(k string, fallback float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid number: %v", k, v, err)
	}
	return f
}
