// Package symbolfeed provides a client for the external company directory feed.
package symbolfeed

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds configuration for the directory feed client.
type Config struct {
	URL      string        `env:"SYMBOL_FEED_URL"`      // XML directory endpoint
	User     string        `env:"SYMBOL_FEED_USER"`     // basic auth user, empty disables auth
	Password string        `env:"SYMBOL_FEED_PASSWORD"` // basic auth password
	Timeout  time.Duration `env:"SYMBOL_FEED_TIMEOUT" envDefault:"30s"`
}

// LoadConfig loads directory feed configuration from environment variables.
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}
