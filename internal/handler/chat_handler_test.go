package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pulseofproject/internal/assistant"
	"pulseofproject/internal/model"
)

type stubUpstream struct {
	reply string
	err   error
}

func (u *stubUpstream) Ask(ctx context.Context, message, projectName, chatContext string) (string, error) {
	return u.reply, u.err
}

func newChatRouter(upstream assistant.Upstream) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := assistant.NewService(upstream, nil, zap.NewNop())
	r := gin.New()
	r.POST("/chat", NewChatHandler(svc, zap.NewNop()).Chat)
	return r
}

func TestChatReturnsUpstreamReply(t *testing.T) {
	r := newChatRouter(&stubUpstream{reply: "The project is on track."})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"message":"how are we doing?","project_name":"Harbor Upgrade"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The project is on track.", resp.Response)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestChatFallsBackOnUpstreamError(t *testing.T) {
	r := newChatRouter(&stubUpstream{err: assert.AnError})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"message":"any risks right now?"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, assistant.FallbackReply("any risks right now?"), resp.Response)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	r := newChatRouter(&stubUpstream{reply: "ignored"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
