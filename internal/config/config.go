package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is built once in main and passed by reference into every component
// that needs it. It is never mutated after Load returns.
type Config struct {
	DatabaseURL string

	JWTSecret     []byte
	RefreshSecret []byte

	BcryptCost int
	ServerPort int

	Env      string
	LogLevel string

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		RefreshSecret: []byte(os.Getenv("REFRESH_SECRET")),

		BcryptCost: envIntDefault("BCRYPT_COST", 10),
		ServerPort: envIntDefault("SERVER_PORT", 8080),

		Env:      envDefault("APP_ENV", "development"),
		LogLevel: envDefault("LOG_LEVEL", "info"),

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envDefault("KAFKA_TOPIC", "task_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing required env DATABASE_URL")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("missing required env JWT_SECRET")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, fmt.Errorf("missing required env REFRESH_SECRET")
	}

	return cfg, nil
}

// IsDev reports whether the process runs in local development. Cookies drop
// the Secure flag only in this mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
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

func csv(v string) []string {
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
