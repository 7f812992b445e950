package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/domain"
)

// openaiChatResponse mirrors the OpenAI-compatible chat completion response.
type openaiChatResponse struct {
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

func chatResponse(content string) openaiChatResponse {
	resp := openaiChatResponse{Object: "chat.completion", Model: "test-model"}
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
	resp.Usage.PromptTokens = 30
	resp.Usage.CompletionTokens = 12
	resp.Usage.TotalTokens = 42
	return resp
}

func TestComposer_Compose(t *testing.T) {
	var gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("  자료구조는 1학년 1학기 과목입니다.  "))
	}))
	defer server.Close()

	comp := NewComposer(&ComposerConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})

	passages := []string{"과목명: 자료구조", "과목명: 알고리즘"}
	reply, err := comp.Compose(context.Background(), "자료구조는 몇 학년 과목이야?", passages)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if reply != "자료구조는 1학년 1학기 과목입니다." {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(gotBody, "[1] 과목명: 자료구조") {
		t.Errorf("request body missing numbered passage: %s", gotBody)
	}
	if !strings.Contains(gotBody, "자료구조는 몇 학년 과목이야?") {
		t.Errorf("request body missing question: %s", gotBody)
	}
}

func TestComposer_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openaiChatResponse{Object: "chat.completion", Model: "test-model"})
	}))
	defer server.Close()

	comp := NewComposer(&ComposerConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})

	_, err := comp.Compose(context.Background(), "질문", nil)
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Fatalf("expected ErrChatProviderError, got %v", err)
	}
}

func TestComposer_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "overloaded",
				"type":    "server_error",
			},
		})
	}))
	defer server.Close()

	comp := NewComposer(&ComposerConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})

	_, err := comp.Compose(context.Background(), "질문", nil)
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Fatalf("expected ErrChatProviderError, got %v", err)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt("질문입니다", []string{"첫번째", "두번째"})

	if !strings.Contains(prompt, "[1] 첫번째") || !strings.Contains(prompt, "[2] 두번째") {
		t.Errorf("passages not numbered: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "질문: 질문입니다") {
		t.Errorf("question not appended: %q", prompt)
	}
}
