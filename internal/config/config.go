// Package config loads the export service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gompdf/cvpdf/logging"
)

// Config holds the export service settings
type Config struct {
	Port        string
	DatabaseURL string

	GeminiAPIKey string
	GeminiModel  string

	LogLevel         slog.Level
	CORSAllowOrigins []string
}

// Defaults
const (
	DefaultPort        = "8080"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Load reads .env files (a missing file is not an error) and then the
// process environment. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds a config from a lookup function such as os.Getenv
func FromEnv(getenv func(string) string) *Config {
	c := &Config{
		Port:         getenv("PORT"),
		DatabaseURL:  getenv("DATABASE_URL"),
		GeminiAPIKey: getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL"),
		LogLevel:     logging.ParseLevel(getenv("LOG_LEVEL")),
	}
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.GeminiModel == "" {
		c.GeminiModel = DefaultGeminiModel
	}
	for _, origin := range strings.Split(getenv("CORS_ALLOW_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			c.CORSAllowOrigins = append(c.CORSAllowOrigins, origin)
		}
	}
	return c
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}

// AllowAllOrigins reports whether CORS is open to every origin
func (c *Config) AllowAllOrigins() bool {
	if len(c.CORSAllowOrigins) == 0 {
		return true
	}
	for _, o := range c.CORSAllowOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
