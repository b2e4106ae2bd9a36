// Package retrieval produces ranked citations for a query.
//
// The current implementation is a deterministic stub. It sits behind the
// orchestrator's Retriever contract so a real index lookup (sparse or
// dense) can replace it without touching the pipeline: the contract is a
// pure function from query+filters to a ranked, finite citation list
// capped by topK.
package retrieval

import (
	"context"

	"github.com/raglab/raglab-api/internal/domain"
)

const (
	stubScore = 0.80
	stubText  = "(stub) Placeholder citation."
)

// Service is the stub document retriever.
type Service struct{}

// New creates a retrieval service.
func New() *Service {
	return &Service{}
}

// Retrieve returns ranked citations for the query, capped by topK.
// The stub yields exactly one synthetic citation referencing
// preferredDocID (or the default placeholder document).
func (s *Service) Retrieve(
	_ context.Context, _ string, preferredDocID string, topK int,
) ([]domain.Citation, error) {
	if preferredDocID == "" {
		preferredDocID = domain.DefaultDocID
	}

	citations := []domain.Citation{
		domain.NewCitation(
			preferredDocID,
			preferredDocID+"#1",
			stubText,
			stubScore,
			map[string]any{"source": "stub"},
		),
	}

	if len(citations) > topK {
		citations = citations[:topK]
	}
	return citations, nil
}
