// Package startup loads configuration from the environment and logs it.
package startup

import (
	"os"
	"strconv"
	"strings"
	"time"

	"musicat/internal/logging"
)

// Config holds the environment-driven settings. Library and cache
// directories are positional command line arguments, not configuration.
type Config struct {
	Port           string
	MetricsPort    string
	MetricsEnabled bool

	// Thumbnail generation.
	ConvertBin      string // ImageMagick convert binary
	ThumbnailEngine string // "magick" or "native"

	CastTimeout time.Duration
}

// LoadConfig reads configuration from environment variables, logging each
// effective value.
func LoadConfig() *Config {
	config := &Config{
		Port:            getEnv("PORT", "8233"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		ConvertBin:      getEnv("CONVERT_BIN", "convert"),
		ThumbnailEngine: getEnv("THUMBNAIL_ENGINE", "magick"),
		CastTimeout:     getEnvDuration("CAST_TIMEOUT", 10*time.Second),
	}

	logging.Info("configuration:")
	logging.Info("  PORT:             %s", config.Port)
	logging.Info("  METRICS_PORT:     %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:  %v", config.MetricsEnabled)
	logging.Info("  CONVERT_BIN:      %s", config.ConvertBin)
	logging.Info("  THUMBNAIL_ENGINE: %s", config.ThumbnailEngine)
	logging.Info("  CAST_TIMEOUT:     %s", config.CastTimeout)
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	return config
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logging.Warn("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logging.Warn("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
