// Package reporting forwards unexpected failures to Sentry.
package reporting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter captures errors that escaped normal handling.
type Reporter interface {
	// Capture records err together with string tags such as the user id.
	Capture(ctx context.Context, err error, tags map[string]string)
	// Flush waits up to timeout for buffered events to be sent.
	Flush(timeout time.Duration)
}

// Options configure New.
type Options struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
	Enabled          bool
}

// New returns a Sentry-backed Reporter, or a no-op one when reporting is
// disabled or no DSN is configured.
func New(opts Options, logger *slog.Logger) (Reporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "reporting")

	if !opts.Enabled || opts.DSN == "" {
		log.Info("Error reporting disabled")
		return Nop{}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		EnableTracing:    opts.TracesSampleRate > 0,
		TracesSampleRate: opts.TracesSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	log.Info("Error reporting enabled", "environment", opts.Environment)
	return &sentryReporter{hub: sentry.CurrentHub(), logger: log}, nil
}

type sentryReporter struct {
	hub    *sentry.Hub
	logger *slog.Logger
}

func (r *sentryReporter) Capture(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		if id := hub.CaptureException(err); id != nil {
			r.logger.DebugContext(ctx, "Reported error", "event_id", string(*id))
		}
	})
}

func (r *sentryReporter) Flush(timeout time.Duration) {
	if !r.hub.Flush(timeout) {
		r.logger.Warn("Timed out flushing error reports")
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Capture(context.Context, error, map[string]string) {}

func (Nop) Flush(time.Duration) {}
