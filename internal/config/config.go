package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	JWTSecret      string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`

	// Drawable content size of a session viewport, in pixels.
	ViewportSize   int  `envconfig:"VIEWPORT_SIZE" default:"500"`
	ViewportMargin int  `envconfig:"VIEWPORT_MARGIN" default:"10"`
	CenterMark     bool `envconfig:"CENTER_MARK" default:"true"`
	SampleScene    bool `envconfig:"SAMPLE_SCENE" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.ViewportSize < 3 {
		return nil, fmt.Errorf("VIEWPORT_SIZE must be at least 3, got %d", cfg.ViewportSize)
	}
	if cfg.ViewportMargin < 0 {
		return nil, fmt.Errorf("VIEWPORT_MARGIN must not be negative, got %d", cfg.ViewportMargin)
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
