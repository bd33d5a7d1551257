package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/eringen/folio"
)

// config holds the process configuration read from the environment.
type config struct {
	// Site
	SiteName        string `env:"SITE_NAME" envDefault:"Folio"`
	SiteURL         string `env:"SITE_URL" envDefault:"http://localhost:3000"`
	SiteDescription string `env:"SITE_DESCRIPTION"`
	SiteAuthor      string `env:"SITE_AUTHOR"`

	// Server
	Addr            string        `env:"ADDR" envDefault:":3000"`
	PublicDir       string        `env:"PUBLIC_DIR" envDefault:".output/public"`
	ContentDir      string        `env:"CONTENT_DIR" envDefault:"content"`
	ContentCacheTTL time.Duration `env:"CONTENT_CACHE_TTL" envDefault:"5m"`

	// Contact form
	ContactWebhookURL    string        `env:"CONTACT_WEBHOOK_URL,required,notEmpty"`
	ContactWebhookSecret string        `env:"CONTACT_WEBHOOK_SECRET,required,notEmpty"`
	ContactTimeout       time.Duration `env:"CONTACT_TIMEOUT" envDefault:"10s"`
	ContactRateLimit     int           `env:"CONTACT_RATE_LIMIT" envDefault:"5"`
	ContactRateWindow    time.Duration `env:"CONTACT_RATE_WINDOW" envDefault:"10m"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// loadDotEnv loads the first .env file found. Variables already set in the
// environment win.
func loadDotEnv(files ...string) {
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			return
		}
	}
}

func loadConfig() (*config, error) {
	cfg := &config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c *config) siteConfig() folio.SiteConfig {
	return folio.SiteConfig{
		Name:                 c.SiteName,
		URL:                  c.SiteURL,
		Description:          c.SiteDescription,
		Author:               c.SiteAuthor,
		Addr:                 c.Addr,
		PublicDir:            c.PublicDir,
		ContentDir:           c.ContentDir,
		ContentCacheTTL:      c.ContentCacheTTL,
		ContactWebhookURL:    c.ContactWebhookURL,
		ContactWebhookSecret: c.ContactWebhookSecret,
		ContactTimeout:       c.ContactTimeout,
		ContactRateLimit:     c.ContactRateLimit,
		ContactRateWindow:    c.ContactRateWindow,
		LogLevel:             c.LogLevel,
		LogFile:              c.LogFile,
	}
}
