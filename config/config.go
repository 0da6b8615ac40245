package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the service reads from the environment.
type Config struct {
	ListenAddr     string `env:"LISTEN_ADDR" envDefault:":5300"`
	DatabaseURL    string `env:"DATABASE_URL"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	// JWTSecret verifies bearer tokens issued by the auth service.
	JWTSecret string `env:"JWT_SECRET"`
	// GatewayToken, when set, locks the service down to gateway traffic only.
	GatewayToken string `env:"RECORD_SERVICE_TOKEN"`

	// R2 image storage. When the account/key fields are empty the service
	// falls back to the local uploads directory.
	CloudflareAccountID string `env:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID       string `env:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret   string `env:"R2_ACCESS_KEY_SECRET"`
	R2Bucket            string `env:"R2_BUCKET_NAME"`
	CDNBaseURL          string `env:"CDN_BASE_URL"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// ModerationEnabled makes new records start as "pending" instead of
	// auto-publishing as "approved".
	ModerationEnabled bool `env:"MODERATION_ENABLED" envDefault:"false"`

	TempSweepInterval time.Duration `env:"TEMP_SWEEP_INTERVAL" envDefault:"15m"`
	TempMaxAge        time.Duration `env:"TEMP_MAX_AGE" envDefault:"24h"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// UseR2 reports whether R2 storage is configured.
func (c Config) UseR2() bool {
	return c.CloudflareAccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2Bucket != ""
}
