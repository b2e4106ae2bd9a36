package chi

import (
	"time"

	"github.com/raglab/raglab-api/internal/domain"
	healthuc "github.com/raglab/raglab-api/internal/usecase/health"
	raguc "github.com/raglab/raglab-api/internal/usecase/rag"
)

// Wire DTOs. Field names are part of the cross-backend contract and must
// stay byte-identical across implementations.

type queryRequest struct {
	Query   string        `json:"query"`
	TopK    int           `json:"topK"`
	Filters *queryFilters `json:"filters"`
	Options *queryOptions `json:"options"`
}

type queryFilters struct {
	DocIDs []string `json:"docIds"`
	Tags   []string `json:"tags"`
}

type queryOptions struct {
	ReturnCitations *bool `json:"returnCitations"`
	ReturnDebug     *bool `json:"returnDebug"`
}

type citationDTO struct {
	DocID   string         `json:"docId"`
	ChunkID string         `json:"chunkId"`
	Text    string         `json:"text"`
	Score   float64        `json:"score"`
	Meta    map[string]any `json:"meta"`
}

type metricsDTO struct {
	Backend          string `json:"backend"`
	LatencyMS        int64  `json:"latencyMs"`
	RetrievedCount   int    `json:"retrievedCount"`
	Model            string `json:"model"`
	PromptTokens     *int   `json:"promptTokens"`
	CompletionTokens *int   `json:"completionTokens"`
	TotalTokens      *int   `json:"totalTokens"`
}

type queryResponse struct {
	Answer    string         `json:"answer"`
	Citations []citationDTO  `json:"citations"`
	Metrics   metricsDTO     `json:"metrics"`
	Debug     map[string]any `json:"debug,omitempty"`
}

type runDTO struct {
	ID             string  `json:"id"`
	CreatedAt      string  `json:"createdAt"`
	Backend        string  `json:"backend"`
	Query          string  `json:"query"`
	TopK           int     `json:"topK"`
	LatencyMS      int64   `json:"latencyMs"`
	RetrievedCount int     `json:"retrievedCount"`
	Status         string  `json:"status"`
	ErrorCode      *string `json:"errorCode"`
	ErrorMessage   *string `json:"errorMessage"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Backend string `json:"backend"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// errorEnvelope wraps every error payload under a top-level "error" key.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func (r queryRequest) toInput() raguc.Input {
	in := raguc.Input{
		Query: r.Query,
		TopK:  r.TopK,
	}
	if r.Filters != nil {
		in.Filters = domain.QueryFilters{
			DocIDs: r.Filters.DocIDs,
			Tags:   r.Filters.Tags,
		}
	}
	if r.Options != nil {
		in.ReturnCitations = r.Options.ReturnCitations
		in.ReturnDebug = r.Options.ReturnDebug
	}
	return in
}

func queryResponseToDTO(resp domain.QueryResponse) queryResponse {
	citations := make([]citationDTO, len(resp.Citations))
	for i, c := range resp.Citations {
		citations[i] = citationDTO{
			DocID:   c.DocID(),
			ChunkID: c.ChunkID(),
			Text:    c.Text(),
			Score:   c.Score(),
			Meta:    c.Meta(),
		}
	}

	return queryResponse{
		Answer:    resp.Answer,
		Citations: citations,
		Metrics: metricsDTO{
			Backend:          resp.Metrics.Backend,
			LatencyMS:        resp.Metrics.LatencyMS,
			RetrievedCount:   resp.Metrics.RetrievedCount,
			Model:            resp.Metrics.Model,
			PromptTokens:     resp.Metrics.PromptTokens,
			CompletionTokens: resp.Metrics.CompletionTokens,
			TotalTokens:      resp.Metrics.TotalTokens,
		},
		Debug: resp.Debug,
	}
}

func runToDTO(run domain.Run) runDTO {
	dto := runDTO{
		ID:             run.ID,
		CreatedAt:      run.CreatedAt.UTC().Format(time.RFC3339Nano),
		Backend:        run.Backend,
		Query:          run.Query,
		TopK:           run.TopK,
		LatencyMS:      run.LatencyMS,
		RetrievedCount: run.RetrievedCount,
		Status:         run.Status,
	}
	if run.ErrorCode != "" {
		dto.ErrorCode = &run.ErrorCode
	}
	if run.ErrorMessage != "" {
		dto.ErrorMessage = &run.ErrorMessage
	}
	return dto
}

func healthToDTO(rep healthuc.Report) healthResponse {
	return healthResponse{
		Status:  rep.Status,
		Service: rep.Service,
		Backend: rep.Backend,
		Version: rep.Version,
		Time:    rep.Time.Format(time.RFC3339Nano),
	}
}
