package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port             int
	DatabaseURL      string
	JWTSecret        string
	JWTTTL           time.Duration
	RedisURL         string
	CloudinaryURL    string
	CloudinaryFolder string
	CORSAllowOrigins string

	LogLevel  string
	LogFormat string

	Admin AdminConfig

	OrphanSweepSchedule string
	OrphanGracePeriod   time.Duration
}

type AdminConfig struct {
	// Emails lists the principals granted admin rights on top of the admin role.
	Emails       []string
	SeedEmail    string
	SeedPassword string
	SeedFullName string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	v := viper.New()
	v.SetDefault("PORT", 8080)
	v.SetDefault("JWT_TTL", "72h")
	v.SetDefault("CLOUDINARY_FOLDER", "driving_tutor")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ADMIN_FULL_NAME", "Platform Admin")
	v.SetDefault("ORPHAN_SWEEP_SCHEDULE", "*/30 * * * *")
	v.SetDefault("ORPHAN_GRACE_PERIOD", "1h")
	v.AutomaticEnv()

	cfg := &Config{
		Port:             v.GetInt("PORT"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTTTL:           v.GetDuration("JWT_TTL"),
		RedisURL:         v.GetString("REDIS_URL"),
		CloudinaryURL:    v.GetString("CLOUDINARY_URL"),
		CloudinaryFolder: v.GetString("CLOUDINARY_FOLDER"),
		CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		Admin: AdminConfig{
			Emails:       SplitList(v.GetString("ADMIN_EMAILS")),
			SeedEmail:    v.GetString("ADMIN_EMAIL"),
			SeedPassword: v.GetString("ADMIN_PASSWORD"),
			SeedFullName: v.GetString("ADMIN_FULL_NAME"),
		},
		OrphanSweepSchedule: v.GetString("ORPHAN_SWEEP_SCHEDULE"),
		OrphanGracePeriod:   v.GetDuration("ORPHAN_GRACE_PERIOD"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required but not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required but not set")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// SplitList parses a comma separated list, dropping blanks and lowercasing entries.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
