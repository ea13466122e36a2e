package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	MutationTopic      string
}

type UpstreamConfig struct {
	BaseURL         string
	NavEndpoint     string
	BannerEndpoint  string
	DefaultEndpoint string
	TimeoutSeconds  int
}

// SessionConfig covers token lifetime only. The signing secret is read
// from SESSION_SECRET where the tokens are minted and verified, in
// internal/pkg/serverutils.
type SessionConfig struct {
	TTLMinutes int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			MutationTopic:      getEnv("RECORD_MUTATION_TOPIC_NAME", "RECORD_MUTATED"),
		},
		Upstream: UpstreamConfig{
			BaseURL:         getEnv("UPSTREAM_BASE_URL", "https://67d944ca00348dd3e2aa65f4.mockapi.io"),
			NavEndpoint:     getEnv("UPSTREAM_NAV_ENDPOINT", "nav"),
			BannerEndpoint:  getEnv("UPSTREAM_BANNER_ENDPOINT", "banner"),
			DefaultEndpoint: getEnv("UPSTREAM_DEFAULT_ENDPOINT", "option-types"),
			TimeoutSeconds:  getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
