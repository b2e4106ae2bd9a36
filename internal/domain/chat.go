package domain

// ChatResult is the generation provider's output for one request.
// Token counts are nil when the provider omitted usage data; a missing
// measurement is never reported as zero.
type ChatResult struct {
	Answer           string
	Model            string
	PromptTokens     *int
	CompletionTokens *int
	TotalTokens      *int
}
