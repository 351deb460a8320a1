package ai

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// RetryGenerator retries transient failures of the wrapped generator with
// exponential backoff. Non-transient errors and cancellation return at once.
type RetryGenerator struct {
	Next       TextGenerator
	MaxRetries int
	Backoff    time.Duration
	MaxBackoff time.Duration
	Log        logrus.FieldLogger

	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps g. maxRetries == 0 returns g unchanged.
func WithRetry(g TextGenerator, maxRetries int, backoff time.Duration, log logrus.FieldLogger) TextGenerator {
	if maxRetries <= 0 {
		return g
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RetryGenerator{Next: g, MaxRetries: maxRetries, Backoff: backoff, MaxBackoff: 10 * time.Second, Log: log}
}

func (r *RetryGenerator) Generate(ctx context.Context, p Prompt) (Completion, error) {
	sleep := r.sleep
	if sleep == nil {
		sleep = sleepWithCtx
	}
	delay := r.Backoff
	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		out, err := r.Next.Generate(ctx, p)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if attempt == r.MaxRetries || !IsTransient(err) || ctx.Err() != nil {
			break
		}
		r.Log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"delay":   delay.String(),
		}).Warn("Text generation failed, retrying")
		if err := sleep(ctx, delay); err != nil {
			return Completion{}, err
		}
		delay *= 2
		if r.MaxBackoff > 0 && delay > r.MaxBackoff {
			delay = r.MaxBackoff
		}
	}
	return Completion{}, lastErr
}

// IsTransient reports whether err is worth retrying: rate limiting, request
// timeouts, server errors and network failures.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return transientStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return transientStatus(reqErr.HTTPStatusCode)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

func transientStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code/100 == 5
}

func sleepWithCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
