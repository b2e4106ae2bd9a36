package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/raglab/raglab-api/internal/domain"
	"github.com/raglab/raglab-api/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterChatMetrics()
	os.Exit(m.Run())
}

// chatCompletionResponse mirrors the OpenAI chat completions response.
type chatCompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func completionResponse(content string, prompt, completion, total int) chatCompletionResponse {
	resp := chatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  "test-model",
	}
	if content != "" {
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{})
		resp.Choices[0].Message.Role = "assistant"
		resp.Choices[0].Message.Content = content
		resp.Choices[0].FinishReason = "stop"
	}
	resp.Usage.PromptTokens = prompt
	resp.Usage.CompletionTokens = completion
	resp.Usage.TotalTokens = total
	return resp
}

func TestChat_Answer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected system+user messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" {
			t.Errorf("first message role = %q, want system", req.Messages[0].Role)
		}
		if req.Messages[1].Content != promptPrefix+"What is RAG?" {
			t.Errorf("user content = %q", req.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("  RAG is retrieval-augmented generation.  ", 20, 30, 50))
	}))
	defer server.Close()

	chat := NewChat(&Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	result, err := chat.Answer(context.Background(), "What is RAG?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if result.Answer != "RAG is retrieval-augmented generation." {
		t.Errorf("Answer = %q, want trimmed content", result.Answer)
	}
	if result.Model != "test-model" {
		t.Errorf("Model = %q, want test-model", result.Model)
	}
	if result.TotalTokens == nil || *result.TotalTokens != 50 {
		t.Errorf("TotalTokens = %v, want 50", result.TotalTokens)
	}
	if result.PromptTokens == nil || *result.PromptTokens != 20 {
		t.Errorf("PromptTokens = %v, want 20", result.PromptTokens)
	}
	if result.CompletionTokens == nil || *result.CompletionTokens != 30 {
		t.Errorf("CompletionTokens = %v, want 30", result.CompletionTokens)
	}
}

func TestChat_Answer_NoUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("ok", 0, 0, 0))
	}))
	defer server.Close()

	chat := NewChat(&Config{APIKey: "test-key", BaseURL: server.URL, Logger: zap.NewNop()})

	result, err := chat.Answer(context.Background(), "q")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if result.PromptTokens != nil || result.CompletionTokens != nil || result.TotalTokens != nil {
		t.Error("token counts must be nil when the provider reports no usage")
	}
}

func TestChat_Answer_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("", 0, 0, 0))
	}))
	defer server.Close()

	chat := NewChat(&Config{APIKey: "test-key", BaseURL: server.URL, Logger: zap.NewNop()})

	_, err := chat.Answer(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error for empty completion")
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected classified error, got %T", err)
	}
	if de.Code != domain.CodeAIError {
		t.Errorf("Code = %s, want %s", de.Code, domain.CodeAIError)
	}
	if de.Message != "OpenAI response was invalid" {
		t.Errorf("Message = %q", de.Message)
	}
}

func TestChat_Answer_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer server.Close()

	chat := NewChat(&Config{APIKey: "test-key", BaseURL: server.URL, Logger: zap.NewNop()})

	_, err := chat.Answer(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected classified error, got %T", err)
	}
	if de.Code != domain.CodeAIUpstreamError {
		t.Errorf("Code = %s, want %s", de.Code, domain.CodeAIUpstreamError)
	}
	if de.Message == "" {
		t.Error("expected a human-readable message")
	}
}

func TestChat_Answer_NotConfigured(t *testing.T) {
	// No API key: the call must fail before any network access.
	chat := NewChat(&Config{Logger: zap.NewNop()})

	_, err := chat.Answer(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error when no API key is configured")
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected classified error, got %T", err)
	}
	if de.Code != domain.CodeAIError {
		t.Errorf("Code = %s, want %s", de.Code, domain.CodeAIError)
	}
	if de.Message != "OPENAI_API_KEY is not configured" {
		t.Errorf("Message = %q", de.Message)
	}
}

func TestNewChat_DefaultModel(t *testing.T) {
	chat := NewChat(&Config{APIKey: "k", Logger: zap.NewNop()})
	if chat.model != DefaultModel {
		t.Errorf("model = %q, want %q", chat.model, DefaultModel)
	}
}
