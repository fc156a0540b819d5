package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	Port         string
	JWTSecret    string
	PasswordHash string
	DataDir      string
	ImagesDir    string
)

// LoadEnv reads .env when present and falls back to the process environment.
// Secrets are required; paths and the port have defaults.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	Port = getEnv("PORT", "8080")
	JWTSecret = mustEnv("JWT_SECRET")
	PasswordHash = mustEnv("PW")
	DataDir = getEnv("DATA_DIR", "./public")
	ImagesDir = getEnv("IMAGES_DIR", "./public/images")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
