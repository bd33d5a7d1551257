// Package folio serves a prebuilt personal website and the one endpoint it
// needs at runtime: the contact form, which filters bots with a honeypot
// field and forwards real submissions to a webhook.
//
// It also exposes the site's markdown collections as JSON, a sitemap, an
// RSS feed of the blog, and Prometheus metrics.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eringen/folio/contact"
)

// App is the central folio application. It wires together the content
// cache, the contact service, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *ContentCache
	Contact *contact.Service
	Metrics *prometheus.Registry
	Views   ErrorViews

	contactLimiter *RateLimiter
	forwarder      contact.Forwarder
	customRoutes   []func(*App)
	logCloser      io.Closer
	ready          bool
}

// New creates a new folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true

	a := &App{
		Config:  cfg,
		Echo:    e,
		Metrics: prometheus.NewRegistry(),
		Views:   defaultErrorViews(cfg.Name),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup validates the configuration and builds logging, services,
// middleware and routes. Start calls it; tests call it directly and drive
// a.Echo. Calling it again is a no-op.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if err := a.Config.validate(); err != nil {
		return err
	}
	if a.forwarder == nil && a.Config.ContactWebhookURL == "" {
		return errors.New("folio: ContactWebhookURL is required")
	}

	if err := a.setupLogging(); err != nil {
		return err
	}

	a.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []contact.Option{
		contact.WithLogger(a.Echo.Logger),
		contact.WithMetrics(contact.NewMetrics(a.Metrics)),
	}
	if a.forwarder != nil {
		opts = append(opts, contact.WithForwarder(a.forwarder))
	}
	svc, err := contact.NewService(contact.Config{
		WebhookURL: a.Config.ContactWebhookURL,
		Secret:     a.Config.ContactWebhookSecret,
		Timeout:    a.Config.ContactTimeout,
	}, opts...)
	if err != nil {
		return fmt.Errorf("folio: init contact: %w", err)
	}
	a.Contact = svc

	a.Content = NewContentCache(a.Config.ContentDir, a.Config.ContentCacheTTL, a.Echo.Logger)

	if a.Config.ContactRateLimit > 0 {
		a.contactLimiter = NewRateLimiter(a.Config.ContactRateLimit, a.Config.ContactRateWindow)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

// Start sets the app up and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if lib, err := a.Content.Library(); err != nil {
		a.Echo.Logger.Warnf("content: initial load failed: %v", err)
	} else {
		a.Echo.Logger.Infof("content: loaded %d entries from %s", len(lib.Entries), a.Config.ContentDir)
	}
	a.Echo.Logger.Infof("serving %s on %s", a.Config.PublicDir, a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	api := e.Group("/api", middleware.BodyLimit("16K"))
	api.POST("/contact", a.handleContact, a.contactRateLimit)
	api.GET("/content/:collection", a.handleContentList)
	api.GET("/content/:collection/:slug", a.handleContentEntry)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.Metrics, promhttp.HandlerOpts{})))

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Prebuilt site output. Directories resolve to their index.html.
	e.Static("/", a.Config.PublicDir)
}

// Shutdown stops the server gracefully and releases background resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close releases background resources without stopping the server.
func (a *App) Close() error {
	if a.contactLimiter != nil {
		a.contactLimiter.Close()
	}
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}
