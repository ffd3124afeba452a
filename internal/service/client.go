// Package service talks to the remote extraction service.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/extractlens/internal/cache"
	"github.com/ppiankov/extractlens/internal/model"
	"github.com/ppiankov/extractlens/internal/util"
	"github.com/ppiankov/extractlens/internal/worker"
)

// retrySleepFunc is swapped out by tests
var retrySleepFunc = time.Sleep

const baseBackoff = 500 * time.Millisecond

// Extractor is anything that can run an extraction
type Extractor interface {
	Extract(ctx context.Context, req model.ExtractRequest) (*model.ExtractResponse, error)
}

// Client calls the extraction service over HTTP
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	maxBytes   int64
	attempts   int
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewClient creates a client from configuration
func NewClient(cfg *model.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	svc := cfg.Service
	timeout := svc.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	maxBytes := svc.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 10_000_000
	}
	attempts := svc.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(svc.HTTPProxy, svc.HTTPSProxy, svc.NoProxy),
			},
		},
		endpoint:  strings.TrimSuffix(svc.BaseURL, "/") + svc.PredictPath,
		userAgent: svc.UserAgent,
		maxBytes:  maxBytes,
		attempts:  attempts,
		limiter:   worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		logger:    logger,
	}

	if cfg.Cache.Enabled {
		c.cache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		c.cacheTTL = cfg.Cache.TTL
	}

	return c
}

// Endpoint returns the URL requests are sent to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Extract submits text to the service and returns the decoded reply.
// A reply carrying an error field comes back as *APIError.
func (c *Client) Extract(ctx context.Context, req model.ExtractRequest) (*model.ExtractResponse, error) {
	reqID := uuid.New().String()
	log := c.logger.With("req_id", reqID)

	key := cache.ExtractionKey(req.Text, req.ExamplesType, req.ModelID)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			log.Debug("service.extract.cache_hit", "endpoint", c.endpoint)
			return decodeResponse(body)
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	log.Info("service.extract.start",
		"endpoint", c.endpoint,
		"examples_type", req.ExamplesType,
		"model_id", req.ModelID,
		"content_length", len(payload),
	)
	start := time.Now()

	body, status, err := c.postWithRetry(ctx, log, payload)
	if err != nil {
		log.Error("service.extract.error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	resp, err := c.interpret(body, status)
	if err != nil {
		log.Warn("service.extract.failed", "status", status, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	log.Info("service.extract.done",
		"status", status,
		"extractions", len(resp.Result.Extractions),
		"model_used", resp.ModelUsed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if c.cache != nil {
		if err := c.cache.Set(key, body, c.cacheTTL); err != nil {
			log.Warn("service.extract.cache_error", "error", err)
		}
	}

	return resp, nil
}

// interpret validates a final response body and maps service errors
func (c *Client) interpret(body []byte, status int) (*model.ExtractResponse, error) {
	if err := ValidateResponse(body); err != nil {
		if status < 200 || status >= 300 {
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, statusMessage(status))
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	resp, err := decodeResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if resp.Error != "" {
		return nil, &APIError{StatusCode: status, Message: resp.Error}
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, statusMessage(status))
	}

	return resp, nil
}

// postWithRetry POSTs payload, retrying network errors and gateway statuses.
// The body of the last attempt is returned along with its status.
func (c *Client) postWithRetry(ctx context.Context, log *slog.Logger, payload []byte) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff * time.Duration(1<<(attempt-1))
			log.Debug("service.extract.retry", "attempt", attempt+1, "backoff_ms", backoff.Milliseconds(), "cause", lastErr)
			retrySleepFunc(backoff)
		}
		if err := ctx.Err(); err != nil {
			return nil, 0, fmt.Errorf("extract: %w", err)
		}

		if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
			return nil, 0, fmt.Errorf("rate limit: %w", err)
		}

		body, status, err := c.post(ctx, payload)
		if err != nil {
			if errors.Is(err, ErrMalformedResponse) {
				return nil, 0, err
			}
			if ctx.Err() != nil {
				return nil, 0, fmt.Errorf("extract: %w", ctx.Err())
			}
			lastErr = err
			continue
		}

		if isTransientStatus(status) && attempt < c.attempts-1 {
			lastErr = fmt.Errorf("transient status: %d", status)
			continue
		}
		return body, status, nil
	}

	return nil, 0, fmt.Errorf("extract after %d attempts: %w", c.attempts, lastErr)
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, 0, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, c.maxBytes)
	}

	return body, resp.StatusCode, nil
}

func isTransientStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func statusMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("%d %s", status, text)
	}
	return fmt.Sprintf("status %d", status)
}
