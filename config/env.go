package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds every configuration value the application reads. Origins
// are enumerated data here so nothing downstream touches the environment.
type AppConfig struct {
	Port            string
	Env             string
	MongoMode       string
	MongoURI        string
	PasetoSecretKey []byte
	CloudinaryURL   string
	AllowedOrigins  []string
	MaxBodyBytes    int64
	Currency        string
	AdminEmail      string
	AdminPassword   string
}

// DefaultMaxBodyBytes caps JSON and form payloads at 10MB.
const DefaultMaxBodyBytes = 10 << 20

// Load reads configuration from a .env file or environment variables.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &AppConfig{
		Port:          getEnv("PORT", "3000"),
		Env:           getEnv("ENVIRONMENT", "development"),
		MongoMode:     getEnv("MONGO_MODE", "local"),
		CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
		MaxBodyBytes:  DefaultMaxBodyBytes,
		Currency:      getEnv("STORE_CURRENCY", "USD"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@maisonlux.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	cfg.AllowedOrigins = splitOrigins(getEnv("ALLOWED_ORIGINS",
		"http://localhost:3000,http://127.0.0.1:3000"))

	// Pick the MongoDB URI based on mode
	if cfg.MongoMode == "atlas" {
		cfg.MongoURI = getEnv("MONGO_URI_ATLAS", "")
		if cfg.MongoURI == "" {
			log.Fatal("MONGO_MODE 'atlas' but MONGO_URI_ATLAS is not set")
		}
	} else {
		cfg.MongoURI = getEnv("MONGO_URI_LOCAL", "mongodb://localhost:27017/maisonlux")
	}

	key := getEnv("PASETO_SECRET_KEY", "")
	if len(key) != 32 {
		log.Fatal("PASETO_SECRET_KEY must be 32 characters long!")
	}
	cfg.PasetoSecretKey = []byte(key)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
