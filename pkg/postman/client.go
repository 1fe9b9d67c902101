package postman

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.getpostman.com"

// ClientConfig configures a Client. Zero values fall back to the documented
// defaults.
type ClientConfig struct {
	APIKey            string
	BaseURL           string        // default DefaultBaseURL
	MaxAttempts       int           // total attempts per call, default 3
	RetryDelay        time.Duration // first backoff delay, doubles per attempt, default 1s
	RequestsPerSecond int           // client-side rate cap, default 5
	PollInterval      time.Duration // delay between task polls, default 2s
	MaxPollAttempts   int           // poll budget, default 30
	Logger            *zap.Logger
}

// Client talks to the vendor REST API. All requests carry the API key and
// flow through one retry/rate-limit path. Resource groups are exposed as
// services (Workspaces, Specs, Collections, Environments, Tasks).
type Client struct {
	Workspaces   *WorkspaceService
	Specs        *SpecService
	Collections  *CollectionService
	Environments *EnvironmentService
	Tasks        *TaskService

	apiKey          string
	baseURL         string
	maxAttempts     int
	retryDelay      time.Duration
	pollInterval    time.Duration
	maxPollAttempts int
	httpClient      *http.Client
	limiter         *rate.Limiter
	log             *zap.Logger

	// sleep is swapped out in tests so retry and poll paths run without
	// real waiting.
	sleep func(time.Duration)
}

// NewClient builds a Client from cfg, applying defaults for unset fields.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = 30
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	c := &Client{
		apiKey:          cfg.APIKey,
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		maxAttempts:     cfg.MaxAttempts,
		retryDelay:      cfg.RetryDelay,
		pollInterval:    cfg.PollInterval,
		maxPollAttempts: cfg.MaxPollAttempts,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond),
		log:     cfg.Logger,
		sleep:   time.Sleep,
	}

	c.Workspaces = &WorkspaceService{client: c}
	c.Specs = &SpecService{client: c}
	c.Collections = &CollectionService{client: c}
	c.Environments = &EnvironmentService{client: c}
	c.Tasks = &TaskService{client: c}

	return c
}

type requestOptions struct {
	suppressErrors bool
}

type requestOption func(*requestOptions)

// notFoundOK marks a call as an expected-absence probe: a final 404 comes
// back as ErrNotFound and no error body is logged.
func notFoundOK() requestOption {
	return func(o *requestOptions) {
		o.suppressErrors = true
	}
}

// do performs one API call with rate limiting and retries. A 429 response
// honors Retry-After and never consumes an attempt; other failures retry up
// to MaxAttempts with exponential backoff. On 2xx the body, when present,
// is decoded into out.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, opts ...requestOption) error {
	var options requestOptions
	for _, opt := range opts {
		opt(&options)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	url := c.baseURL + endpoint

	for attempt := 1; ; {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			delay := retryAfter(resp.Header.Get("Retry-After"))
			c.log.Warn("Rate limited, backing off", zap.Duration("wait", delay))
			c.sleep(delay)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil || len(respBody) == 0 {
				return nil
			}
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		}

		if attempt >= c.maxAttempts {
			if options.suppressErrors {
				if resp.StatusCode == http.StatusNotFound {
					return ErrNotFound
				}
			} else {
				c.logErrorBody(method, endpoint, resp.StatusCode, respBody)
			}
			return &APIError{
				Status:   resp.StatusCode,
				Method:   method,
				Endpoint: endpoint,
				Body:     string(respBody),
			}
		}

		c.sleep(c.retryDelay << (attempt - 1))
		attempt++
	}
}

func (c *Client) get(ctx context.Context, endpoint string, out any, opts ...requestOption) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out, opts...)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out)
}

// logErrorBody reports a terminal HTTP failure. JSON bodies are
// pretty-printed; anything else is truncated to keep logs readable.
func (c *Client) logErrorBody(method, endpoint string, status int, body []byte) {
	c.log.Error("Request failed",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", status),
	)
	if len(body) == 0 {
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err == nil {
		c.log.Error("Detail: " + pretty.String())
		return
	}
	if len(body) > 500 {
		body = body[:500]
	}
	c.log.Error("Response: " + string(body))
}

// retryAfter parses a Retry-After header value in seconds, defaulting to 60
// when absent or unparsable.
func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		seconds = 60
	}
	return time.Duration(seconds) * time.Second
}
