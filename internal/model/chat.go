package model

import "time"

// ChatRequest is the inbound chat-assistant payload.
type ChatRequest struct {
	Message     string `json:"message"`
	ProjectName string `json:"project_name"`
	Context     string `json:"context"`
}

// ChatResponse is the assistant reply. No conversation state is kept
// server-side; each request stands alone.
type ChatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
