package reply

import (
	"context"

	"github.com/kailas-cloud/kilnchat/internal/domain/answer"
)

// Fetcher asks the question-answering backend for an answer payload.
// topK <= 0 means the backend default. Backends that respond with plain text
// return it as Payload.Answer with no matches.
type Fetcher interface {
	FetchAnswer(ctx context.Context, question string, topK int) (answer.Payload, error)
}
