// Package runs records and lists query run attempts.
package runs

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raglab/raglab-api/internal/domain"
)

// Listing limits.
const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Service is the run recorder and reader. Both paths are best-effort:
// observability must never become a new source of request failure.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a runs service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends one run row. It never fails visibly: persistence errors
// are logged as warnings and discarded. The write ignores caller
// cancellation since the record must reflect work already performed.
func (s *Service) Record(ctx context.Context, run domain.Run) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Backend == "" {
		run.Backend = domain.Backend
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.repo.Insert(ctx, run); err != nil {
		s.logger.Warn("failed to insert query run",
			zap.String("backend", run.Backend),
			zap.String("status", run.Status),
			zap.String("error_code", run.ErrorCode),
			zap.Error(err),
		)
	}
}

// List returns recent runs, newest first, optionally filtered by exact
// backend match. limit is clamped to [1,100] and defaults to 25. On
// persistence failure an empty list is returned and a warning logged.
func (s *Service) List(ctx context.Context, limit int, backend string) []domain.Run {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	items, err := s.repo.List(ctx, limit, backend)
	if err != nil {
		s.logger.Warn("failed to fetch query runs",
			zap.String("backend", backend),
			zap.Error(err),
		)
		return []domain.Run{}
	}
	if items == nil {
		items = []domain.Run{}
	}
	return items
}
