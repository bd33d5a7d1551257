package folio

import (
	"fmt"
	"net/url"
	"time"

	"github.com/eringen/folio/contact"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Folio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for the feed
	Author      string

	Addr       string // Listen address (default ":3000")
	PublicDir  string // Prebuilt site output (default "public")
	ContentDir string // Markdown collections (default "content")

	ContentCacheTTL time.Duration // default 5min

	ContactWebhookURL    string        // Required unless WithForwarder is used
	ContactWebhookSecret string        // Required: sent upstream with every payload
	ContactTimeout       time.Duration // default 10s
	ContactRateLimit     int           // Requests per window and IP (default 5, negative disables)
	ContactRateWindow    time.Duration // default 10min

	LogLevel string // debug, info, warn, error or off (default "info")
	LogFile  string // Rotated log file, in addition to stdout
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Folio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
	if c.ContactTimeout == 0 {
		c.ContactTimeout = contact.DefaultTimeout
	}
	if c.ContactRateLimit == 0 {
		c.ContactRateLimit = 5
	}
	if c.ContactRateWindow == 0 {
		c.ContactRateWindow = 10 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *SiteConfig) validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("folio: site URL %q must be absolute", c.URL)
	}
	if c.ContactWebhookSecret == "" {
		return fmt.Errorf("folio: ContactWebhookSecret is required")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs during Setup, after the built-in routes.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithForwarder delivers contact submissions through f instead of the
// configured webhook URL.
func WithForwarder(f contact.Forwarder) Option {
	return func(a *App) {
		a.forwarder = f
	}
}

// WithErrorViews overrides the fallback error pages used when the public
// directory has none.
func WithErrorViews(v ErrorViews) Option {
	return func(a *App) {
		if v.NotFound != nil {
			a.Views.NotFound = v.NotFound
		}
		if v.ServerError != nil {
			a.Views.ServerError = v.ServerError
		}
	}
}
