package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultUserAgent is sent when a request does not set its own.
const DefaultUserAgent = "Mozilla/5.0 (compatible; recipebook/1.0)"

// DefaultTimeout bounds outbound page fetches and model calls.
const DefaultTimeout = 60 * time.Second

type contextKey string

const targetKey contextKey = "httpclient.target"

// WithTarget tags the context with the remote service name (openai, youtube, web)
// so the outbound span carries it.
func WithTarget(ctx context.Context, target string) context.Context {
	return context.WithValue(ctx, targetKey, target)
}

// Target returns the name stored by WithTarget.
func Target(ctx context.Context) string {
	target, _ := ctx.Value(targetKey).(string)
	return target
}

// targetTransport annotates the active span with the target and marks HTTP
// failures as span errors.
type targetTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *targetTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	span := trace.SpanFromContext(req.Context())
	if target := Target(req.Context()); target != "" {
		span.SetAttributes(attribute.String("http.target_service", target))
	}
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP status %d", resp.StatusCode))
	}
	return resp, nil
}

func newTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(&targetTransport{base: base, userAgent: DefaultUserAgent},
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if target := Target(r.Context()); target != "" {
				return fmt.Sprintf("%s: %s %s", target, r.Method, r.URL.Path)
			}
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
	)
}

// New returns an instrumented client with the given timeout.
// A non-positive timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: newTransport(http.DefaultTransport),
		Timeout:   timeout,
	}
}

// Wrap instruments an existing client in place and returns it.
func Wrap(client *http.Client) *http.Client {
	client.Transport = newTransport(client.Transport)
	return client
}
