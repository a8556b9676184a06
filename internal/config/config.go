package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds everything the API server reads from the environment.
type Config struct {
	Port        string `env:"PORT,default=8080"`
	DatabaseDSN string `env:"DATABASE_DSN,default=host=localhost user=postgres password=password dbname=jobhub port=5432 sslmode=disable"`
	CORSOrigins string `env:"CORS_ORIGINS,default=*"`
	FrontendURL string `env:"FRONTEND_URL,default=http://localhost:3000"`

	JWTSecret     string        `env:"JWT_SECRET,default=jobhub-secret-change-in-production"`
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME,default=168h"`

	// OAuth session exchange against the upstream auth broker.
	SessionExchangeURL string `env:"SESSION_EXCHANGE_URL,default="`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,default="`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,default="`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URI,default=http://localhost:8080/api/auth/google/callback"`

	ResumeStoragePath string `env:"RESUME_STORAGE_PATH,default=storage/resumes"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY,default="`

	JobFeedURL   string        `env:"JOB_FEED_URL,default="`
	SyncInterval time.Duration `env:"JOB_SYNC_INTERVAL,default=6h"`
}

// Load reads .env (if present) and decodes the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// AllowedOrigins splits CORS_ORIGINS into its entries.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
