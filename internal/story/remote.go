package story

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/gamebook/internal/telemetry"
)

// DefaultRemoteFiles are the story modules published by the upstream backend.
var DefaultRemoteFiles = []string{
	"space_adventure.js",
	"fantasy_adventure.js",
	"detective_adventure.js",
}

var (
	// ErrHTTPStatus is returned when the backend answers with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	// ErrStoryTooLarge is returned when a story file exceeds the download limit.
	ErrStoryTooLarge = errors.New("story file too large")
)

const (
	defaultMaxTries = 4
	maxStoryBytes   = 4 << 20
)

// RemoteStore fetches story files over HTTP from <base>/stories/<file>.
type RemoteStore struct {
	baseURL  string
	files    []string
	client   *http.Client
	maxTries uint
	backOff  func() backoff.BackOff
	logger   *zap.Logger
}

// RemoteOption configures a RemoteStore.
type RemoteOption func(*RemoteStore)

// WithHTTPClient sets the HTTP client used for fetches.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *RemoteStore) { r.client = c }
}

// WithMaxTries sets how many times a single file is attempted.
func WithMaxTries(n uint) RemoteOption {
	return func(r *RemoteStore) { r.maxTries = n }
}

// WithBackOff sets the retry schedule factory. A new schedule is built per file.
func WithBackOff(f func() backoff.BackOff) RemoteOption {
	return func(r *RemoteStore) { r.backOff = f }
}

// WithLogger sets the logger used to report retries.
func WithLogger(l *zap.Logger) RemoteOption {
	return func(r *RemoteStore) { r.logger = l }
}

// NewRemoteStore creates a store reading files from baseURL, or DefaultBaseURL
// if empty. With no files, DefaultRemoteFiles are fetched.
func NewRemoteStore(baseURL string, files []string, opts ...RemoteOption) *RemoteStore {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if len(files) == 0 {
		files = DefaultRemoteFiles
	}

	r := &RemoteStore{
		baseURL:  strings.TrimRight(baseURL, "/"),
		files:    files,
		client:   &http.Client{Timeout: 30 * time.Second},
		maxTries: defaultMaxTries,
		backOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch downloads every configured file concurrently. The result keeps the
// configured file order; any failure fails the whole fetch.
func (r *RemoteStore) Fetch(ctx context.Context) ([]*Story, error) {
	ctx, span := telemetry.Tracer("story").Start(ctx, "story.fetch_remote")
	defer span.End()
	span.SetAttributes(
		attribute.String("story.base_url", r.baseURL),
		attribute.Int("story.files", len(r.files)),
	)

	stories := make([]*Story, len(r.files))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range r.files {
		g.Go(func() error {
			st, err := r.fetchOne(gctx, name)
			if err != nil {
				return err
			}
			stories[i] = st
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := checkAll(stories); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return stories, nil
}

// URL returns the download URL of a story file.
func (r *RemoteStore) URL(name string) string {
	return r.baseURL + "/stories/" + url.PathEscape(name)
}

// fetchOne downloads and decodes a single file, retrying transient failures.
func (r *RemoteStore) fetchOne(ctx context.Context, name string) (*Story, error) {
	ctx, span := telemetry.Tracer("story").Start(ctx, "story.fetch_file")
	defer span.End()
	span.SetAttributes(attribute.String("story.file", name))

	attempts := 0
	operation := func() (*Story, error) {
		attempts++
		body, err := r.get(ctx, r.URL(name))
		if err != nil {
			return nil, err
		}
		st, err := Decode(name, body)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return st, nil
	}

	st, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(r.backOff()),
		backoff.WithMaxTries(r.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Warn("Retrying story fetch",
				zap.String("file", name),
				zap.Duration("backoff", next),
				zap.Error(err),
			)
		}),
	)
	span.SetAttributes(attribute.Int("story.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to fetch story %s: %w", name, err)
	}
	return st, nil
}

// get performs one GET. Transport errors, 429 and 5xx are retryable; any other
// non-2xx status is permanent.
func (r *RemoteStore) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStoryBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxStoryBytes {
		return nil, backoff.Permanent(fmt.Errorf("%w: over %d bytes", ErrStoryTooLarge, maxStoryBytes))
	}
	return body, nil
}
