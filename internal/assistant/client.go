package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pulseofproject/internal/config"
)

// UpstreamClient calls the hosted LLM chat endpoint.
type UpstreamClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewUpstreamClient(cfg config.AssistantConfig) *UpstreamClient {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout == 0 {
		timeout = 5 * time.Second // keep the API loop from hanging on a dead upstream
	}
	return &UpstreamClient{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type upstreamRequest struct {
	Message     string `json:"message"`
	ProjectName string `json:"project_name"`
	Context     string `json:"context"`
}

type upstreamResponse struct {
	Response string `json:"response"`
}

// Ask sends one chat turn upstream and returns the reply text.
func (c *UpstreamClient) Ask(ctx context.Context, message, projectName, chatContext string) (string, error) {
	b, err := json.Marshal(upstreamRequest{
		Message:     message,
		ProjectName: projectName,
		Context:     chatContext,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("assistant upstream 5xx: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant upstream error: %d", resp.StatusCode)
	}

	var out upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Response, nil
}
