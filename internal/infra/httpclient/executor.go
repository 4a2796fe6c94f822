package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/cenkalti/backoff/v5"
)

// Executor performs HTTP requests with bounded retries on transient failures.
type Executor struct {
	client     *http.Client
	timeout    time.Duration
	retries    int
	userAgent  string
	newBackOff func() backoff.BackOff
	log        *slog.Logger

	maxFetch int64
}

// ExecutorOption allows configuring an Executor.
type ExecutorOption func(*Executor)

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) { e.client = client }
}

// WithBackOff replaces the exponential retry policy.
func WithBackOff(fn func() backoff.BackOff) ExecutorOption {
	return func(e *Executor) { e.newBackOff = fn }
}

func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// NewExecutor builds an Executor from cfg.
func NewExecutor(cfg Config, opts ...ExecutorOption) *Executor {
	e := &Executor{
		client:    New(cfg),
		timeout:   cfg.Timeout,
		retries:   cfg.Retries,
		userAgent: cfg.UserAgent,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		log:      slog.New(slog.DiscardHandler),
		maxFetch: maxFetchBytes,
	}
	if e.retries < 0 {
		e.retries = 0
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// statusError is returned for non-success responses.
type statusError struct {
	Method string
	URL    string
	Status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// retry runs op until it succeeds, fails permanently, or exhausts the retry budget.
func retry[T any](ctx context.Context, e *Executor, op string, fn func() (T, error)) (T, error) {
	attempt := 0
	res, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		v, err := fn()
		if err != nil && ctx.Err() != nil {
			return v, backoff.Permanent(ctx.Err())
		}
		return v, err
	},
		backoff.WithBackOff(e.newBackOff()),
		backoff.WithMaxTries(uint(e.retries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			e.log.Warn("http.retry", "op", op, "attempt", attempt, "next", next, "err", err)
		}),
	)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}
		kind := domain.KindRemote
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			kind = domain.KindExecution
		}
		return res, &domain.OpError{
			Op:   op,
			Kind: kind,
			Err:  fmt.Errorf("%w: %w", domain.ErrRemote, err),
		}
	}
	return res, nil
}

// send performs one request. Transient statuses are returned as retryable errors;
// any other status is handed back to the caller with the body open.
func (e *Executor) send(ctx context.Context, method, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	if retryable(resp.StatusCode) {
		drain(resp)
		return nil, &statusError{Method: method, URL: url, Status: resp.StatusCode}
	}
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
