// Package rag orchestrates one query: validation, retrieval, generation,
// metrics computation and run recording.
package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/raglab/raglab-api/internal/domain"
)

// Service is the query orchestrator.
type Service struct {
	retriever Retriever
	chat      ChatProvider
	recorder  Recorder
}

// New creates a rag service.
func New(retriever Retriever, chat ChatProvider, recorder Recorder) *Service {
	return &Service{retriever: retriever, chat: chat, recorder: recorder}
}

// Input carries the raw, not-yet-validated query parameters. Nil option
// pointers mean "not supplied" so defaults can be resolved downstream.
type Input struct {
	Query           string
	TopK            int
	Filters         domain.QueryFilters
	ReturnCitations *bool
	ReturnDebug     *bool
}

// Query runs the full pipeline. Stages run strictly sequentially:
// retrieval, generation, metrics, recording. Exactly one run record is
// written on every exit path, validation failures included. On failure
// the caller receives the classified error and no partial response.
func (s *Service) Query(ctx context.Context, in Input) (resp domain.QueryResponse, err error) {
	// Once started, a request runs to completion: client disconnects are
	// not observed, so the run record reflects work actually performed.
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	topK := in.TopK
	retrievedCount := 0

	defer func() {
		run := domain.Run{
			Backend:        domain.Backend,
			Query:          in.Query,
			TopK:           topK,
			LatencyMS:      latencyMillis(start),
			RetrievedCount: retrievedCount,
			Status:         domain.RunStatusOK,
		}
		if err != nil {
			classified := domain.Classify(err)
			run.Status = domain.RunStatusError
			run.ErrorCode = string(classified.Code)
			run.ErrorMessage = classified.Message
		}
		s.recorder.Record(ctx, run)
	}()

	req, err := domain.NewQueryRequest(in.Query, in.TopK, in.Filters, in.ReturnCitations, in.ReturnDebug)
	if err != nil {
		return domain.QueryResponse{}, err
	}
	topK = req.TopK()

	citations := []domain.Citation{}
	if req.ReturnCitations() {
		citations, err = s.retriever.Retrieve(ctx, req.Query(), req.PreferredDocID(), req.TopK())
		if err != nil {
			return domain.QueryResponse{}, fmt.Errorf("retrieve citations: %w", err)
		}
	}
	retrievedCount = len(citations)

	chat, err := s.chat.Answer(ctx, req.Query())
	if err != nil {
		return domain.QueryResponse{}, fmt.Errorf("answer query: %w", err)
	}

	metrics := domain.Metrics{
		Backend:          domain.Backend,
		LatencyMS:        latencyMillis(start),
		RetrievedCount:   retrievedCount,
		Model:            chat.Model,
		PromptTokens:     chat.PromptTokens,
		CompletionTokens: chat.CompletionTokens,
		TotalTokens:      chat.TotalTokens,
	}

	var debug map[string]any
	if req.ReturnDebug() {
		debug = map[string]any{"note": "openai response"}
	}

	return domain.QueryResponse{
		Answer:    chat.Answer,
		Citations: citations,
		Metrics:   metrics,
		Debug:     debug,
	}, nil
}

// latencyMillis floors elapsed wall-clock time to 1ms. Latency is never
// reported as zero: downstream dashboards treat "no data" as "instant"
// and divide by it.
func latencyMillis(start time.Time) int64 {
	ms := time.Since(start).Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return ms
}
