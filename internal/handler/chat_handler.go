package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pulseofproject/internal/assistant"
	"pulseofproject/internal/model"
)

type ChatHandler struct {
	svc    *assistant.Service
	logger *zap.Logger
}

func NewChatHandler(svc *assistant.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

// Chat proxies a single stateless question to the assistant. The service
// never fails the request; upstream trouble degrades to a canned reply.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Chat: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
		return
	}

	resp := h.svc.Chat(c.Request.Context(), req)
	c.JSON(http.StatusOK, resp)
}
