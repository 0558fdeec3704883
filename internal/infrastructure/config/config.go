package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BaseURL is the externally reachable origin, used to build password
	// reset links.
	BaseURL string `env:"BASE_URL, default=http://localhost:8080"`

	// SessionTTL is the inactivity window after which the session store
	// drops a session. ResetTokenTTL bounds the password-reset window.
	SessionTTL    time.Duration `env:"SESSION_TTL,     default=336h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=1h"`

	SecureCookies bool `env:"SECURE_COOKIES, default=false"`

	UploadDir      string `env:"UPLOAD_DIR,       default=./uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES, default=5242880"`

	// Orphan-file sweep cadence and the minimum age before an unreferenced
	// file is considered abandoned rather than mid-request.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL, default=1h"`
	OrphanMinAge  time.Duration `env:"ORPHAN_MIN_AGE, default=1h"`

	Mongo MongoConfig
	Redis RedisConfig
	Mail  MailConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type MailConfig struct {
	// APIURL empty means reset links are logged instead of delivered.
	APIURL string `env:"MAIL_API_URL"`
	APIKey string `env:"MAIL_API_KEY"`
	From   string `env:"MAIL_FROM, default=shop@minutemart.example"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
