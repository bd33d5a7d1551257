package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Messages returned to the caller.
const (
	MessageSent          = "Message sent successfully!"
	MessageShadowBlocked = "Message sent! (Shadow blocked)"
	MessageUnavailable   = "Service temporarily unavailable."
)

// DefaultTimeout bounds a single webhook delivery.
const DefaultTimeout = 10 * time.Second

// Outcome says what happened to a submission. Every processed request has
// exactly one.
type Outcome string

const (
	OutcomeForwarded     Outcome = "forwarded"
	OutcomeShadowBlocked Outcome = "shadow_blocked"
	OutcomeRejected      Outcome = "rejected"
	OutcomeFailed        Outcome = "failed"
)

// Result is the success body sent back to the form.
type Result struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Outcome Outcome `json:"-"`
}

// Error carries the HTTP status and the caller-safe message of a failed
// submission. Err holds the cause and is for logs only.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("contact: %d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("contact: %d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Forwarder delivers a validated payload upstream.
type Forwarder interface {
	Forward(ctx context.Context, p Payload) error
}

// Config is the process-wide, read-only contact configuration.
type Config struct {
	WebhookURL string
	Secret     string
	Timeout    time.Duration // default 10s
}

// Option configures a Service.
type Option func(*Service)

// WithForwarder replaces the webhook forwarder, e.g. in tests.
func WithForwarder(f Forwarder) Option {
	return func(s *Service) {
		s.forwarder = f
	}
}

// WithLogger sets the logger used for operator-facing events.
func WithLogger(l echo.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMetrics records outcomes and delivery latency.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service handles contact submissions. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	secret    string
	timeout   time.Duration
	forwarder Forwarder
	logger    echo.Logger
	metrics   *Metrics
}

// NewService builds a Service from cfg. Unless a forwarder is supplied,
// cfg.WebhookURL is required.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	s := &Service{
		secret:  cfg.Secret,
		timeout: cfg.Timeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.secret == "" {
		return nil, errors.New("contact: webhook secret is required")
	}
	if s.forwarder == nil {
		if cfg.WebhookURL == "" {
			return nil, errors.New("contact: webhook URL is required")
		}
		fwd, err := NewWebhookForwarder(cfg.WebhookURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		s.forwarder = fwd
	}
	if s.logger == nil {
		s.logger = log.New("contact")
	}
	return s, nil
}

// Submit validates body and, if it is a legitimate submission, forwards it
// once. Validation and delivery failures come back as *Error. Shadow blocks
// are left for the caller to log with its request details.
func (s *Service) Submit(ctx context.Context, body []byte) (Result, error) {
	sub, issues := Parse(body)
	if len(issues) > 0 {
		if issues.Has(HoneypotField) {
			s.logger.Debugf("contact: honeypot issues: %v", issues)
			s.metrics.ObserveOutcome(OutcomeShadowBlocked)
			return Result{Success: true, Message: MessageShadowBlocked, Outcome: OutcomeShadowBlocked}, nil
		}
		s.logger.Debugf("contact: rejected submission: %v", issues)
		s.metrics.ObserveOutcome(OutcomeRejected)
		return Result{Outcome: OutcomeRejected}, &Error{
			Status:  http.StatusBadRequest,
			Message: issues[0].Message,
			Err:     issues,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.forwarder.Forward(ctx, sub.payload(s.secret))
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.metrics.ObserveDelivery("error", elapsed)
		s.metrics.ObserveOutcome(OutcomeFailed)
		s.logger.Errorf("contact: webhook delivery failed: %v", err)
		return Result{Outcome: OutcomeFailed}, &Error{
			Status:  http.StatusBadGateway,
			Message: MessageUnavailable,
			Err:     err,
		}
	}
	s.metrics.ObserveDelivery("ok", elapsed)
	s.metrics.ObserveOutcome(OutcomeForwarded)
	s.logger.Infof("contact: forwarded submission in %.3fs", elapsed)
	return Result{Success: true, Message: MessageSent, Outcome: OutcomeForwarded}, nil
}
