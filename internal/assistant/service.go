package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pulseofproject/internal/model"
	"pulseofproject/pkg/circuitbreaker"
	"pulseofproject/pkg/logger"
	"pulseofproject/pkg/metrics"
)

// Upstream is the slice of the upstream client the service needs.
type Upstream interface {
	Ask(ctx context.Context, message, projectName, chatContext string) (string, error)
}

// Service answers chat requests. Stateless: no conversation history is kept
// server-side. Upstream failures and an open breaker both degrade to the
// canned fallback table instead of an error.
type Service struct {
	upstream Upstream
	breaker  *circuitbreaker.CircuitBreaker
	logger   *zap.Logger
}

func NewService(upstream Upstream, breaker *circuitbreaker.CircuitBreaker, log *zap.Logger) *Service {
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig())
	}
	return &Service{
		upstream: upstream,
		breaker:  breaker,
		logger:   log,
	}
}

func (s *Service) Chat(ctx context.Context, req model.ChatRequest) model.ChatResponse {
	log := logger.WithTrace(ctx, s.logger)
	start := time.Now()

	var reply string
	err := s.breaker.Execute(func() error {
		var askErr error
		reply, askErr = s.upstream.Ask(ctx, req.Message, req.ProjectName, req.Context)
		return askErr
	})

	if err != nil {
		metrics.RecordAssistantCallLatency("fallback", time.Since(start))
		log.Warn("Assistant upstream unavailable, serving fallback",
			zap.String("project_name", req.ProjectName),
			zap.Error(err),
		)
		return model.ChatResponse{
			Response:  FallbackReply(req.Message),
			Timestamp: time.Now(),
		}
	}

	metrics.RecordAssistantCallLatency("success", time.Since(start))
	log.Info("Assistant reply served",
		zap.String("project_name", req.ProjectName),
	)
	return model.ChatResponse{
		Response:  reply,
		Timestamp: time.Now(),
	}
}
