package domain

// Metrics describes a single request's execution. Derived once during
// response assembly and never mutated afterwards.
type Metrics struct {
	Backend          string
	LatencyMS        int64
	RetrievedCount   int
	Model            string
	PromptTokens     *int
	CompletionTokens *int
	TotalTokens      *int
}

// QueryResponse is the terminal artifact returned to the caller.
// Debug is nil unless the caller asked for it.
type QueryResponse struct {
	Answer    string
	Citations []Citation
	Metrics   Metrics
	Debug     map[string]any
}
