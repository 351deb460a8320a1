package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestRetryGeneratorRetriesTransientErrors(t *testing.T) {
	calls := 0
	next := GeneratorFunc(func(ctx context.Context, p Prompt) (Completion, error) {
		calls++
		if calls < 3 {
			return Completion{}, &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}
		}
		return Completion{Text: "ok"}, nil
	})

	var delays []time.Duration
	r := WithRetry(next, 3, 100*time.Millisecond, quietLogger()).(*RetryGenerator)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	out, err := r.Generate(context.Background(), Prompt{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, delays)
}

func TestRetryGeneratorStopsOnClientError(t *testing.T) {
	calls := 0
	next := GeneratorFunc(func(ctx context.Context, p Prompt) (Completion, error) {
		calls++
		return Completion{}, &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "bad"}
	})
	r := WithRetry(next, 5, time.Millisecond, quietLogger())

	_, err := r.Generate(context.Background(), Prompt{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryGeneratorGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	want := &openai.APIError{HTTPStatusCode: http.StatusBadGateway}
	next := GeneratorFunc(func(ctx context.Context, p Prompt) (Completion, error) {
		calls++
		return Completion{}, want
	})
	r := WithRetry(next, 2, 0, quietLogger()).(*RetryGenerator)
	r.sleep = func(context.Context, time.Duration) error { return nil }

	_, err := r.Generate(context.Background(), Prompt{})
	assert.ErrorIs(t, err, want)
	assert.Equal(t, 3, calls)
}

func TestWithRetryZeroReturnsSameGenerator(t *testing.T) {
	next := GeneratorFunc(func(ctx context.Context, p Prompt) (Completion, error) { return Completion{}, nil })
	g := WithRetry(next, 0, time.Second, nil)
	_, ok := g.(*RetryGenerator)
	assert.False(t, ok)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(errors.New("boom")))
	assert.True(t, IsTransient(&openai.RequestError{HTTPStatusCode: http.StatusServiceUnavailable}))
	assert.True(t, IsTransient(&openai.APIError{HTTPStatusCode: http.StatusRequestTimeout}))
	assert.False(t, IsTransient(&openai.APIError{HTTPStatusCode: http.StatusUnauthorized}))
}
