package report

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

var enabled bool

// Setup initialises Sentry when dsn is set. Without a dsn reporting stays a
// no-op so local runs need no account.
func Setup(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	}); err != nil {
		return err
	}

	enabled = true
	sentry.CaptureMessage("storefront started")
	return nil
}

func Enabled() bool { return enabled }

func Flush() {
	if enabled {
		sentry.Flush(2 * time.Second)
	}
}

// CaptureError reports err with the request-scoped hub when one is present.
func CaptureError(ctx context.Context, err error, tags map[string]string) {
	if !enabled || err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

// Middleware wraps next with panic capture and a per-request hub. It is a
// pass-through when Sentry is not configured.
func Middleware(next http.Handler) http.Handler {
	if !enabled {
		return next
	}

	sentryHandler := sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
	return sentryHandler.Handle(next)
}
