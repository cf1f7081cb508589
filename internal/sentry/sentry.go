// Package sentry initialises error reporting and keeps secrets out of the
// events it sends.
package sentry

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds Sentry settings.
type Config struct {
	// DSN enables reporting when non-empty.
	DSN         string
	Environment string
	Release     string
	ServerName  string

	// SampleRate is the error sample rate; 0 means 1.0.
	SampleRate float64
	Debug      bool
}

// redactedHeaders are replaced before an event leaves the process.
var redactedHeaders = []string{"x-admin-password", "authorization", "cookie"}

// Initialize configures the global Sentry hub. An empty DSN disables
// reporting and returns nil.
func Initialize(cfg Config) error {
	if cfg.DSN == "" {
		return nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		ServerName:       cfg.ServerName,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
		BeforeSend:       scrubEvent,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// scrubEvent redacts credential headers and drops request bodies, which
// may hold contact-form personal data.
func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event == nil || event.Request == nil {
		return event
	}
	for name := range event.Request.Headers {
		for _, secret := range redactedHeaders {
			if strings.EqualFold(name, secret) {
				event.Request.Headers[name] = "[redacted]"
			}
		}
	}
	event.Request.Data = ""
	event.Request.Cookies = ""
	return event
}

// Flush waits up to timeout for queued events to be sent.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled reports whether a client is bound to the current hub.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureException reports err on the hub bound to ctx, falling back to
// the global hub. The request, if given, is attached to the event.
func CaptureException(ctx context.Context, err error, r *http.Request) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if r != nil {
			scope.SetRequest(r)
		}
		hub.CaptureException(err)
	})
}
