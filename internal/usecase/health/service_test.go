package health

import (
	"context"
	"testing"
	"time"

	"github.com/raglab/raglab-api/internal/domain"
)

func TestCheck_Identity(t *testing.T) {
	svc := New()

	r := svc.Check(context.Background())
	if r.Status != "ok" {
		t.Errorf("Status = %q, want %q", r.Status, "ok")
	}
	if r.Service != ServiceName {
		t.Errorf("Service = %q, want %q", r.Service, ServiceName)
	}
	if r.Backend != domain.Backend {
		t.Errorf("Backend = %q, want %q", r.Backend, domain.Backend)
	}
	if r.Version == "" {
		t.Error("Version should never be empty")
	}
}

func TestCheck_TimeIsCurrentUTC(t *testing.T) {
	svc := New()

	before := time.Now().UTC()
	r := svc.Check(context.Background())
	after := time.Now().UTC()

	if r.Time.Before(before) || r.Time.After(after) {
		t.Errorf("Time = %v, want between %v and %v", r.Time, before, after)
	}
	if r.Time.Location() != time.UTC {
		t.Errorf("Time location = %v, want UTC", r.Time.Location())
	}
}
