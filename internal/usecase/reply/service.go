package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kilnchat/internal/domain"
	"github.com/kailas-cloud/kilnchat/internal/domain/answer"
	"github.com/kailas-cloud/kilnchat/internal/domain/intent"
	logpkg "github.com/kailas-cloud/kilnchat/internal/logger"
)

// Fixed replies used when neither the answer nor the matches carry anything to show.
const (
	NotFoundMessage = "Sorry, I couldn't find any information about that. Please try rephrasing your question."

	MediumSuggestion = "I couldn't find specific information on that. " +
		"Try asking about a topic such as glazes, clay bodies, cone 6 firing or kiln wash."

	LongSuggestion = "I couldn't find enough detail to put together a full guide. " +
		"Try a more specific question, for example how to center clay on the wheel, " +
		"a cone 6 glaze firing schedule or how to prevent glaze crawling."
)

// Outcome labels for composed replies.
const (
	OutcomeAnswered = "answered"
	OutcomeSalvaged = "salvaged"
	OutcomeFallback = "fallback"
)

// Service turns a question into display-ready reply content.
type Service struct {
	fetcher     Fetcher
	defaultTopK int
	outcomes    *prometheus.CounterVec
}

// New creates a reply service.
func New(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// WithDefaultTopK sets the match count forwarded when the caller gives none.
func (s *Service) WithDefaultTopK(topK int) *Service {
	s.defaultTopK = topK
	return s
}

// WithOutcomeCounter records composed replies by "mode" and "outcome" labels. nil disables it.
func (s *Service) WithOutcomeCounter(c *prometheus.CounterVec) *Service {
	s.outcomes = c
	return s
}

// Reply classifies the question, fetches the backend payload exactly once and composes the reply.
// Backend failures are returned unchanged (see domain.UpstreamError); there is no retry.
func (s *Service) Reply(ctx context.Context, question string, topK int) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", domain.ErrEmptyQuestion
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	mode := intent.Infer(question)

	payload, err := s.fetcher.FetchAnswer(ctx, question, topK)
	if err != nil {
		return "", fmt.Errorf("fetch answer: %w", err)
	}

	content, outcome := compose(mode, question, payload)
	s.observe(mode, outcome)

	logpkg.FromContext(ctx).Debug("reply composed",
		zap.String("mode", string(mode)),
		zap.String("outcome", outcome),
		zap.Int("matches", len(payload.Matches)),
		zap.Int("content_length", len(content)),
	)

	return finalize(content), nil
}

// compose dispatches to the composer selected by mode and applies the fallback rules.
func compose(mode intent.Mode, question string, payload answer.Payload) (string, string) {
	ans := Normalize(payload.Answer)
	noInfo := ans == "" || IsNoInformation(ans)

	switch mode {
	case intent.Short:
		if ans != "" {
			return ComposeShort(ans), OutcomeAnswered
		}
		if top, ok := payload.Top(); ok {
			if s := firstSentence(top.Description); s != "" {
				return s, OutcomeSalvaged
			}
			if s := firstSentence(top.Lede); s != "" {
				return s, OutcomeSalvaged
			}
		}
		return NotFoundMessage, OutcomeFallback

	case intent.Long:
		switch {
		case !noInfo:
			return ComposeLong(question, ans, payload.Matches), OutcomeAnswered
		case len(payload.Matches) > 0:
			if out := ComposeLong(question, "", payload.Matches); out != "" {
				return out, OutcomeSalvaged
			}
		}
		return LongSuggestion, OutcomeFallback

	default:
		switch {
		case !noInfo:
			return ComposeMedium(ans, payload.Matches), OutcomeAnswered
		case len(payload.Matches) > 0:
			if out := ComposeMedium("", payload.Matches); out != "" {
				return out, OutcomeSalvaged
			}
		}
		return MediumSuggestion, OutcomeFallback
	}
}

func (s *Service) observe(mode intent.Mode, outcome string) {
	if s.outcomes != nil {
		s.outcomes.WithLabelValues(string(mode), outcome).Inc()
	}
}
