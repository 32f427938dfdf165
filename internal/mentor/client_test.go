// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/finiq-ai/finiq-tui/internal/model"
)

const okResponse = `{
	"id": "resp-1",
	"model": "finiq-mentor-1",
	"choices": [{
		"message": {"role": "assistant", "content": "Diversification spreads risk."},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18}
}`

func newTestClient(serverURL string) *Client {
	return NewClient("sk-test-key").WithBaseURL(serverURL).WithMaxRetries(1)
}

func TestChat(t *testing.T) {
	var gotBody ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("what is diversification?")})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got := resp.GetContent(); got != "Diversification spreads risk." {
		t.Errorf("content = %q", got)
	}
	if gotBody.Model != DefaultModel {
		t.Errorf("request model = %q", gotBody.Model)
	}
	if gotBody.Stream {
		t.Error("stream should be false")
	}
}

func TestChatNotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, ErrAuthFailed},
		{"model not found", http.StatusNotFound, `{"error":{"message":"no such model"}}`, ErrModelNotFound},
		{"unauthorized unparseable", http.StatusUnauthorized, `nope`, ErrAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL).WithMaxRetries(0)
			_, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChatRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"transient"}}`))
			return
		}
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	client := newTestClient(server.URL).WithMaxRetries(2)
	resp, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.GetContent() == "" {
		t.Error("empty content after retry")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestChatRetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"down"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL).WithMaxRetries(1)
	_, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("err = %v, want APIError", err)
	}
}

func TestChatContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := newTestClient(server.URL)
	_, err := client.Chat(ctx, []ChatMessage{NewUserMessage("hi")})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestAsk(t *testing.T) {
	var gotBody ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.Ask(context.Background(), "what is diversification?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer == "" {
		t.Error("empty answer")
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Errorf("expected system prompt first, got %+v", gotBody.Messages)
	}
}

func TestReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	msg, err := client.Reply(context.Background(), []model.Message{
		model.NewUserMessage("what is diversification?"),
	})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if msg.Role != model.RoleAssistant {
		t.Errorf("Role = %q", msg.Role)
	}
	if msg.Content != "Diversification spreads risk." {
		t.Errorf("Content = %q", msg.Content)
	}
	if msg.ID == "" || msg.Timestamp.IsZero() {
		t.Error("reply message not fully constructed")
	}
}

func TestReplyEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"resp-2","choices":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Reply(context.Background(), []model.Message{model.NewUserMessage("hi")})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestFromSession(t *testing.T) {
	wire := FromSession([]model.Message{
		model.NewUserMessage("q1"),
		model.NewAssistantMessage("a1"),
	})
	if len(wire) != 3 {
		t.Fatalf("len = %d, want 3", len(wire))
	}
	if wire[0].Role != "system" || wire[0].Content != SystemPrompt {
		t.Error("system prompt not prepended")
	}
	if wire[1].Role != "user" || wire[2].Role != "assistant" {
		t.Error("roles not preserved")
	}
}

func TestKeyFingerprint(t *testing.T) {
	a := NewClient("sk-aaa").KeyFingerprint()
	b := NewClient("sk-bbb").KeyFingerprint()
	if a == b {
		t.Error("distinct keys share a fingerprint")
	}
	if NewClient("").KeyFingerprint() != "none" {
		t.Error("empty key fingerprint")
	}
	if len(a) != 8 {
		t.Errorf("fingerprint length = %d", len(a))
	}
}
