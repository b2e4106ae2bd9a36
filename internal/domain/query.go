package domain

import "strings"

// Query parameter limits.
const (
	DefaultTopK = 5
	MaxTopK     = 50

	// DefaultDocID is the placeholder document referenced by the stub
	// retriever when the caller supplies no document filter.
	DefaultDocID = "demo-doc"
)

// QueryFilters narrows retrieval to specific documents or tags.
type QueryFilters struct {
	DocIDs []string
	Tags   []string
}

// QueryRequest is a validated, normalized query. topK is clamped here at
// the boundary; nothing deeper in the pipeline reinterprets it.
type QueryRequest struct {
	query           string
	topK            int
	filters         QueryFilters
	returnCitations bool
	returnDebug     bool
}

// NewQueryRequest validates the query text and resolves defaults.
// Defaults: topK=5 (clamped to [1,50]), returnCitations=true, returnDebug=false.
// A nil option pointer means "not supplied".
func NewQueryRequest(
	query string, topK int, filters QueryFilters,
	returnCitations, returnDebug *bool,
) (QueryRequest, error) {
	if strings.TrimSpace(query) == "" {
		return QueryRequest{}, NewError(CodeBadRequest, "query is required").
			WithDetails(map[string]any{"field": "query"})
	}
	switch {
	case topK == 0:
		topK = DefaultTopK
	case topK < 1:
		topK = 1
	case topK > MaxTopK:
		topK = MaxTopK
	}

	citations := true
	if returnCitations != nil {
		citations = *returnCitations
	}
	debug := false
	if returnDebug != nil {
		debug = *returnDebug
	}

	return QueryRequest{
		query:           query,
		topK:            topK,
		filters:         filters,
		returnCitations: citations,
		returnDebug:     debug,
	}, nil
}

// Query returns the raw query text.
func (r *QueryRequest) Query() string { return r.query }

// TopK returns the clamped result budget.
func (r *QueryRequest) TopK() int { return r.topK }

// Filters returns the retrieval filters.
func (r *QueryRequest) Filters() QueryFilters { return r.filters }

// ReturnCitations reports whether the caller wants citations.
func (r *QueryRequest) ReturnCitations() bool { return r.returnCitations }

// ReturnDebug reports whether the caller wants debug output.
func (r *QueryRequest) ReturnDebug() bool { return r.returnDebug }

// PreferredDocID returns the first filtered document id, or DefaultDocID
// when no document filter was supplied.
func (r *QueryRequest) PreferredDocID() string {
	if len(r.filters.DocIDs) > 0 && r.filters.DocIDs[0] != "" {
		return r.filters.DocIDs[0]
	}
	return DefaultDocID
}
