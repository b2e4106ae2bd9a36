package runs

import (
	"context"

	"github.com/raglab/raglab-api/internal/domain"
)

// Repository defines the storage contract for query run records.
type Repository interface {
	Insert(ctx context.Context, run domain.Run) error
	List(ctx context.Context, limit int, backend string) ([]domain.Run, error)
}
