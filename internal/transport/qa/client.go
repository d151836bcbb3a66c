// Package qa is the client for the remote question-answering backend.
package qa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kilnchat/internal/domain"
	"github.com/kailas-cloud/kilnchat/internal/domain/answer"
	"github.com/kailas-cloud/kilnchat/internal/metrics"
)

// Driver is the metrics label for this backend.
const Driver = "qa"

const (
	defaultTimeout = 30 * time.Second
	// maxBodyBytes bounds how much of a backend response is read.
	maxBodyBytes = 4 << 20
)

// Config holds the backend client settings.
type Config struct {
	BaseURL string
	Domain  string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client queries GET <base>/api/<domain>/query.
type Client struct {
	baseURL  string
	queryURL string
	apiKey   string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient creates a backend client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		baseURL:  base,
		queryURL: base + "/api/" + url.PathEscape(cfg.Domain) + "/query",
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// FetchAnswer implements reply.Fetcher. One request per call, no retry.
func (c *Client) FetchAnswer(ctx context.Context, question string, topK int) (answer.Payload, error) {
	params := url.Values{}
	params.Set("question", question)
	if topK > 0 {
		params.Set("topK", strconv.Itoa(topK))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return answer.Payload{}, fmt.Errorf("build backend request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(Driver).Observe(time.Since(start).Seconds())
	if err != nil {
		status := http.StatusBadGateway
		label := "error"
		if isTimeout(err) {
			status = http.StatusGatewayTimeout
			label = "timeout"
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(Driver, label).Inc()
		c.logger.Warn("backend request failed", zap.Error(err))
		return answer.Payload{}, domain.NewUpstreamError(status, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamRequestsTotal.WithLabelValues(Driver, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return answer.Payload{}, domain.NewUpstreamError(http.StatusBadGateway, "", fmt.Errorf("read backend body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("backend returned error status", zap.Int("status", resp.StatusCode))
		return answer.Payload{}, domain.NewUpstreamError(resp.StatusCode, errorMessage(body), nil)
	}

	return ParsePayload(body), nil
}

// HealthCheck reports the backend reachable when its base URL answers below 500.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend health status %d", resp.StatusCode)
	}
	return nil
}

// ParsePayload reads a backend body defensively. An object yields its "answer" and "matches";
// a bare JSON string is the answer; anything else (other JSON, invalid JSON, plain text)
// becomes the answer verbatim. Non-object matches and non-string fields are skipped.
func ParsePayload(body []byte) answer.Payload {
	if !gjson.ValidBytes(body) {
		return answer.Payload{Answer: string(body)}
	}

	root := gjson.ParseBytes(body)
	switch {
	case root.IsObject():
		p := answer.Payload{Answer: stringField(root, "answer")}
		root.Get("matches").ForEach(func(_, m gjson.Result) bool {
			if m.IsObject() {
				p.Matches = append(p.Matches, answer.Match{
					Title:       stringField(m, "title"),
					Lede:        stringField(m, "lede"),
					Description: stringField(m, "description"),
				})
			}
			return true
		})
		return p
	case root.Type == gjson.String:
		return answer.Payload{Answer: root.Str}
	default:
		return answer.Payload{Answer: string(body)}
	}
}

// errorMessage picks the backend's own message, then the raw body, then the default.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		root := gjson.ParseBytes(body)
		for _, path := range []string{"error", "error.message", "message", "detail"} {
			if msg := stringField(root, path); msg != "" {
				return msg
			}
		}
	}
	if raw := strings.TrimSpace(string(body)); raw != "" {
		return raw
	}
	return domain.DefaultUpstreamMessage
}

func stringField(r gjson.Result, path string) string {
	v := r.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
