package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pulseofproject/internal/config"
	"pulseofproject/internal/model"
	"pulseofproject/pkg/circuitbreaker"
)

func TestChatReturnsUpstreamReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req upstreamRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what is the status?", req.Message)
		assert.Equal(t, "Harbor Revamp", req.ProjectName)

		json.NewEncoder(w).Encode(upstreamResponse{Response: "All milestones are on track."})
	}))
	defer srv.Close()

	client := NewUpstreamClient(config.AssistantConfig{URL: srv.URL, TimeoutMs: 2000})
	svc := NewService(client, nil, zap.NewNop())

	resp := svc.Chat(context.Background(), model.ChatRequest{
		Message:     "what is the status?",
		ProjectName: "Harbor Revamp",
	})

	assert.Equal(t, "All milestones are on track.", resp.Response)
	assert.WithinDuration(t, time.Now(), resp.Timestamp, time.Minute)
}

func TestChatFallsBackOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewUpstreamClient(config.AssistantConfig{URL: srv.URL, TimeoutMs: 2000})
	svc := NewService(client, nil, zap.NewNop())

	resp := svc.Chat(context.Background(), model.ChatRequest{
		Message: "when is the next deadline?",
	})

	assert.Equal(t, FallbackReply("when is the next deadline?"), resp.Response)
	assert.Contains(t, resp.Response, "timeline")
}

func TestChatFallsBackWhenBreakerOpen(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewUpstreamClient(config.AssistantConfig{URL: srv.URL, TimeoutMs: 2000})
	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
		FailureThreshold:    2,
		SuccessThreshold:    1,
		Timeout:             time.Minute,
		HalfOpenMaxRequests: 1,
	})
	svc := NewService(client, breaker, zap.NewNop())

	req := model.ChatRequest{Message: "any risks?"}
	svc.Chat(context.Background(), req)
	svc.Chat(context.Background(), req)
	// breaker now open: the upstream must not be called again
	callsBefore := calls
	resp := svc.Chat(context.Background(), req)

	assert.Equal(t, callsBefore, calls)
	assert.Equal(t, circuitbreaker.StateOpen, breaker.GetState())
	assert.Equal(t, FallbackReply("any risks?"), resp.Response)
}

func TestFallbackReplyKeywordMatching(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"status keyword", "What's the STATUS of my project?", "milestone progress"},
		{"deadline keyword", "when is the deadline", "timeline"},
		{"risk keyword", "are there any risks?", "risks panel"},
		{"deliverable keyword", "how do deliverables work", "checklist items"},
		{"team keyword", "who is on the team", "team panel"},
		{"no match falls through", "tell me a joke", "try asking again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, FallbackReply(tt.message), tt.want)
		})
	}
}
