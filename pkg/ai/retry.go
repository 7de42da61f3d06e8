package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go/v2"
	"go.uber.org/zap"

	"github.com/clientbrief/clientbrief/pkg/config"
)

// RetryPolicy bounds how API calls are retried. MaxAttempts counts every
// attempt including the first, so MaxAttempts=3 means at most two retries.
// MaxCorrections bounds the follow-up prompts sent when a response decodes
// or validates badly; those go through the API again and are budgeted
// separately from transport retries.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Jitter          float64
	MaxCorrections  int
}

// PolicyFromConfig builds a RetryPolicy from the retry section of the
// application config.
func PolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     cfg.MaxAttempts,
		InitialInterval: cfg.InitialInterval,
		MaxInterval:     cfg.MaxInterval,
		Multiplier:      2.0,
		Jitter:          0.3,
		MaxCorrections:  cfg.MaxCorrections,
	}
}

func (p RetryPolicy) backOff() backoff.BackOff {
	if p.MaxAttempts <= 1 {
		return &backoff.StopBackOff{}
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialInterval
	bo.MaxInterval = p.MaxInterval
	bo.Multiplier = p.Multiplier
	bo.RandomizationFactor = p.Jitter
	bo.MaxElapsedTime = 0
	return backoff.WithMaxRetries(bo, uint64(p.MaxAttempts-1))
}

// run executes fn, retrying transient failures with exponential backoff.
// Anything non-transient stops the loop immediately and comes back unwrapped.
func (p RetryPolicy) run(ctx context.Context, logger *zap.Logger, operation string, fn func() error) error {
	wrapped := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		if logger != nil {
			logger.Warn("transient API failure, retrying",
				zap.String("operation", operation),
				zap.Duration("wait", wait),
				zap.Error(err))
		}
	}

	return backoff.RetryNotify(wrapped, backoff.WithContext(p.backOff(), ctx), notify)
}

// IsTransient reports whether err is worth retrying: rate limits, server
// errors, timeouts, and connection failures. Cancellation and client-side
// API errors are not.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusTooManyRequests ||
			apierr.StatusCode >= http.StatusInternalServerError
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Connection-level failures surface as *url.Error.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// IsAuthError reports whether err is an API key rejection.
func IsAuthError(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusUnauthorized ||
			apierr.StatusCode == http.StatusForbidden
	}
	return false
}
