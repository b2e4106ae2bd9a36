package rag

import (
	"context"

	"github.com/raglab/raglab-api/internal/domain"
)

// Retriever produces ranked citations for a query. Implementations must
// be pure: no side effects, a finite non-streaming list capped by topK.
type Retriever interface {
	Retrieve(ctx context.Context, query, preferredDocID string, topK int) ([]domain.Citation, error)
}

// ChatProvider produces a natural-language answer for a query. Failures
// must be classified (AI_ERROR or AI_UPSTREAM_ERROR) at the source.
type ChatProvider interface {
	Answer(ctx context.Context, query string) (domain.ChatResult, error)
}

// Recorder persists one run record per request attempt. It must never
// fail visibly.
type Recorder interface {
	Record(ctx context.Context, run domain.Run)
}
