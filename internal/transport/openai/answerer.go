package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kilnchat/internal/domain"
	"github.com/kailas-cloud/kilnchat/internal/domain/answer"
	"github.com/kailas-cloud/kilnchat/internal/metrics"
)

// Driver is the metrics label for this backend.
const Driver = "openai"

// DefaultSystemPrompt keeps completions on topic and in the backend's no-information wording.
const DefaultSystemPrompt = "You are a pottery and ceramics assistant. Answer only questions about pottery, " +
	"clay, glazes, kilns and firing. If you do not know, reply exactly: " +
	"\"No relevant pottery information found. Please try rephrasing your question.\""

// Answerer answers questions with an OpenAI-compatible chat completion endpoint.
type Answerer struct {
	client       *openai.Client
	model        string
	systemPrompt string
	timeout      time.Duration
	logger       *zap.Logger
}

// Config holds the chat provider settings.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
	Logger       *zap.Logger
}

// NewAnswerer creates an OpenAI-compatible answer provider.
func NewAnswerer(cfg *Config) *Answerer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Answerer{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		systemPrompt: prompt,
		timeout:      cfg.Timeout,
		logger:       logger,
	}
}

// FetchAnswer implements reply.Fetcher. The completion becomes the answer; there are no matches.
// topK has no meaning for a chat model and is ignored.
func (a *Answerer) FetchAnswer(ctx context.Context, question string, _ int) (answer.Payload, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, req)
	metrics.UpstreamRequestDuration.WithLabelValues(Driver).Observe(time.Since(start).Seconds())

	if err != nil {
		upErr := parseAPIError(err)
		var ue *domain.UpstreamError
		if errors.As(upErr, &ue) {
			metrics.UpstreamRequestsTotal.WithLabelValues(Driver, statusLabel(ue.Status)).Inc()
		}
		a.logger.Warn("chat completion failed", zap.String("model", a.model), zap.Error(err))
		return answer.Payload{}, upErr
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(Driver, strconv.Itoa(http.StatusOK)).Inc()

	if len(resp.Choices) == 0 {
		return answer.Payload{}, nil
	}
	return answer.Payload{Answer: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (a *Answerer) HealthCheck(ctx context.Context) error {
	if _, err := a.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError maps provider failures to domain.UpstreamError, keeping the provider's status and message.
// Failures without a status become 502, or 504 on deadline.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return domain.NewUpstreamError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		msg := extractDetail(reqErr.Body)
		if msg == "" {
			msg = strings.TrimSpace(string(reqErr.Body))
		}
		return domain.NewUpstreamError(reqErr.HTTPStatusCode, msg, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewUpstreamError(http.StatusGatewayTimeout, "", err)
	}
	return domain.NewUpstreamError(http.StatusBadGateway, "", err)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}

func statusLabel(status int) string {
	if status == http.StatusGatewayTimeout {
		return "timeout"
	}
	return strconv.Itoa(status)
}
