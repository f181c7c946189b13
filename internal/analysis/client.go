// Package analysis sends lab reports to a remote analysis service and
// reshapes its responses into canonical readings.
package analysis

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spherical/homellm/internal/cache"
	"github.com/spherical/homellm/internal/domain"
	"github.com/spherical/homellm/internal/observability"
	"github.com/spherical/homellm/internal/readings"
)

const (
	// DefaultModel is sent with every request and reported when the service names no model.
	DefaultModel = "homellm-water-analyzer-v1"

	defaultCacheTTL = 24 * time.Hour
	maxErrorBody    = 64 * 1024
)

// Client handles communication with the remote analysis service
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	adapter    *Adapter
	cache      cache.Client
	cacheTTL   time.Duration
	logger     *observability.Logger
}

// ClientConfig configures a Client. Only Endpoint and APIKey are required
// to send requests; the rest have defaults.
type ClientConfig struct {
	Endpoint   string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Parser     *readings.Parser
	Cache      cache.Client
	CacheTTL   time.Duration
	Logger     *observability.Logger
	Now        func() time.Time
}

// Request is the JSON body posted to the analysis endpoint
type Request struct {
	Model      string `json:"model"`
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	FileBase64 string `json:"fileBase64"`
	FileSize   int64  `json:"fileSize"`
}

// NewClient creates a new analysis client. The HTTP client has no timeout
// of its own; callers bound requests through the context.
func NewClient(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      model,
		httpClient: httpClient,
		adapter:    NewAdapter(cfg.Parser, model, cfg.Now),
		cache:      cfg.Cache,
		cacheTTL:   ttl,
		logger:     logger.WithOperation("remote_analysis"),
	}
}

// Configured reports whether both an endpoint and an API key are set.
func (c *Client) Configured() bool {
	return c.HasEndpoint() && strings.TrimSpace(c.apiKey) != ""
}

// HasEndpoint reports whether an endpoint is set. Requests may still carry
// a per-call key from WithAPIKey when no key is configured.
func (c *Client) HasEndpoint() bool {
	return strings.TrimSpace(c.endpoint) != ""
}

type apiKeyContextKey struct{}

// WithAPIKey returns a context whose requests authenticate with key instead
// of the configured one. A blank key leaves ctx unchanged.
func WithAPIKey(ctx context.Context, key string) context.Context {
	key = strings.TrimSpace(key)
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, apiKeyContextKey{}, key)
}

// APIKeyFromContext returns the key set by WithAPIKey.
func APIKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(apiKeyContextKey{}).(string)
	return key, ok && key != ""
}

func (c *Client) keyFor(ctx context.Context) string {
	if key, ok := APIKeyFromContext(ctx); ok {
		return key
	}
	return strings.TrimSpace(c.apiKey)
}

// AnalyzeFile posts the file to the analysis endpoint and reshapes the reply.
// It makes a single attempt; failures leave nothing cached.
func (c *Client) AnalyzeFile(ctx context.Context, file domain.UploadedFile) (*domain.AnalysisResult, error) {
	if !c.HasEndpoint() {
		return nil, domain.ConfigError("remote analysis endpoint is not configured", nil)
	}
	apiKey := c.keyFor(ctx)
	if apiKey == "" {
		return nil, domain.ConfigError("remote analysis API key is not configured", nil)
	}

	key := c.cacheKey(file)
	if body, ok := c.cached(ctx, key); ok {
		c.logger.Debug().Str("file", file.Name).Msg("Using cached analysis response")
		return c.adapter.Reshape(body, file.Name)
	}

	body, err := c.send(ctx, apiKey, c.buildRequest(file))
	if err != nil {
		return nil, err
	}

	result, err := c.adapter.Reshape(body, file.Name)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, body)
	c.logger.Info().
		Str("file", file.Name).
		Int("entries", len(result.Entries)).
		Int("exceedances", len(result.Exceedances)).
		Msg("Remote analysis complete")
	return result, nil
}

// buildRequest encodes the file into the request payload
func (c *Client) buildRequest(file domain.UploadedFile) *Request {
	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &Request{
		Model:      c.model,
		FileName:   file.Name,
		MimeType:   mimeType,
		FileBase64: base64.StdEncoding.EncodeToString(file.Data),
		FileSize:   file.Size(),
	}
}

func (c *Client) send(ctx context.Context, apiKey string, payload *Request) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.RemoteAnalysisError("failed to encode analysis request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.ConfigError("invalid remote analysis endpoint", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.RemoteAnalysisError("analysis request failed", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Analysis service responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, domain.RemoteAnalysisError(failureMessage(resp.StatusCode, errBody), nil)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.RemoteAnalysisError("failed to read analysis response", err)
	}
	return respBody, nil
}

// failureMessage returns the server's own reason when the error body has
// one, falling back to a generic message with the status code.
func failureMessage(status int, body []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			switch v := parsed[key].(type) {
			case string:
				if strings.TrimSpace(v) != "" {
					return strings.TrimSpace(v)
				}
			case map[string]any:
				if msg, ok := v["message"].(string); ok && strings.TrimSpace(msg) != "" {
					return strings.TrimSpace(msg)
				}
			}
		}
	}
	return fmt.Sprintf("remote analysis failed with status %d", status)
}

// cacheKey scopes cached replies to the endpoint and model that produced them.
func (c *Client) cacheKey(file domain.UploadedFile) string {
	sum := sha256.Sum256(file.Data)
	return cache.CacheKey("analysis", c.endpoint, c.model, hex.EncodeToString(sum[:]))
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Msg("Analysis cache lookup failed")
		}
		return nil, false
	}
	return body, true
}

func (c *Client) store(ctx context.Context, key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
		c.logger.Warn().Err(err).Msg("Analysis cache write failed")
	}
}
