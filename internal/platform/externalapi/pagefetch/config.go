// Package pagefetch downloads the web pages attribute values are scraped from.
package pagefetch

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds configuration for the page downloader.
type Config struct {
	Timeout   time.Duration `env:"PAGE_FETCH_TIMEOUT" envDefault:"20s"`
	MaxBytes  int64         `env:"PAGE_FETCH_MAX_BYTES" envDefault:"5242880"` // larger bodies are rejected
	UserAgent string        `env:"PAGE_FETCH_USER_AGENT" envDefault:"stock-screener/1.0"`
	// RateLimit downloads are allowed per RateInterval. 0 disables throttling.
	RateLimit    int           `env:"PAGE_FETCH_RATE_LIMIT" envDefault:"0"`
	RateInterval time.Duration `env:"PAGE_FETCH_RATE_INTERVAL" envDefault:"1m"`
}

// LoadConfig loads page downloader configuration from environment variables.
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}
