package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	ServerPort int
	LogLevel   string

	// APIBaseURL is the single environment override for the outbound
	// client; everything else is a compile-time constant.
	APIBaseURL string

	// DatabaseURL selects postgres when set; otherwise storage falls back
	// to a local sqlite file at StoragePath.
	DatabaseURL string
	StoragePath string

	JWTSecret []byte

	KafkaBrokers []string
	UploadDir    string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		ServerPort:   EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:     EnvDefault("LOG_LEVEL", "info"),
		APIBaseURL:   EnvDefault("API_BASE_URL", "http://localhost:8080/api"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		StoragePath:  EnvDefault("STORAGE_PATH", "marketplace.db"),
		JWTSecret:    []byte(EnvDefault("JWT_SECRET", "dev-secret")),
		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		UploadDir:    EnvDefault("UPLOAD_DIR", "uploads"),
	}

	return config, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
