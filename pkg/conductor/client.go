package conductor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL       = "https://api.conductor.is/v1"
	EndUserHeader        = "Conductor-End-User-Id"
	maxResponseSizeBytes = 8 << 20
	qbdPathPrefix        = "/quickbooks-desktop"
)

type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.conductor.is/v1"`
	APIKey    string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	EndUserID string        `envconfig:"END_USER_ID" split_words:"true" required:"true"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: CONDUCTOR_API_KEY is required", ErrConfigMissing)
	}
	if strings.TrimSpace(c.EndUserID) == "" {
		return fmt.Errorf("%w: CONDUCTOR_END_USER_ID is required", ErrConfigMissing)
	}
	return nil
}

// Option customizes Client.
type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client talks to the Conductor QuickBooks Desktop API on behalf of a
// single end user. It holds no state besides its configuration.
type Client struct {
	baseURL    string
	apiKey     string
	endUserID  string
	httpClient *http.Client
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid conductor base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		baseURL:   baseURL,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		endUserID: strings.TrimSpace(cfg.EndUserID),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// HealthCheckResponse is returned by the desktop connection probe.
type HealthCheckResponse struct {
	Duration float64 `json:"duration"`
	Status   string  `json:"status"`
}

// HealthCheck asks the API to round-trip a trivial request through
// QuickBooks Desktop for the configured end user.
func (c *Client) HealthCheck(ctx context.Context) (*HealthCheckResponse, error) {
	var out HealthCheckResponse
	if err := c.exec(ctx, http.MethodGet, qbdPathPrefix+"/health-check", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

func (c *Client) exec(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c == nil {
		return errors.New("nil conductor client")
	}
	if strings.TrimSpace(c.endUserID) == "" {
		return fmt.Errorf("%w: conductor end user id is not set", ErrConfigMissing)
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return fmt.Errorf("%w: conductor api key is not set", ErrConfigMissing)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal conductor request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build conductor request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set(EndUserHeader, c.endUserID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return classifyTransportError(ctx, method, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode conductor response %s %s: %w", method, path, err)
	}
	return nil
}

func classifyTransportError(ctx context.Context, method, path string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s %s: %v", ErrTimeout, method, path, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s %s: %v", ErrTimeout, method, path, err)
	}
	return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
}

func decodeAPIError(status int, raw []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
		if env.Error.HTTPStatusCode == 0 {
			env.Error.HTTPStatusCode = status
		}
		return env.Error
	}
	return &APIError{
		HTTPStatusCode: status,
		Type:           ErrorTypeInternal,
		Message:        strings.TrimSpace(string(raw)),
	}
}

func resourcePath(resource string, id ...string) string {
	p := qbdPathPrefix + "/" + resource
	if len(id) > 0 && id[0] != "" {
		p += "/" + url.PathEscape(id[0])
	}
	return p
}
