// Package health reports the service identity.
package health

import (
	"context"
	"time"

	"github.com/raglab/raglab-api/internal/domain"
	"github.com/raglab/raglab-api/internal/version"
)

// ServiceName identifies this deployment across all backends.
const ServiceName = "raglab-api"

// Report is the identity payload served by the health endpoint.
type Report struct {
	Status  string
	Service string
	Backend string
	Version string
	Time    time.Time
}

// Service builds health reports.
type Service struct{}

// New creates a health service.
func New() *Service {
	return &Service{}
}

// Check returns the current identity report.
func (s *Service) Check(_ context.Context) Report {
	return Report{
		Status:  "ok",
		Service: ServiceName,
		Backend: domain.Backend,
		Version: version.Version,
		Time:    time.Now().UTC(),
	}
}
