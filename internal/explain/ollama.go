package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resumatch/internal/summarizer"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "llama3.2:1b"

	ollamaSystemPrompt = "You are a concise assistant that explains resume-to-job matches. Be factual and cite the candidate's listed skills and experience."
)

// OllamaGenerator calls a local Ollama server over its chat REST API.
type OllamaGenerator struct {
	host   string
	model  string
	client *http.Client
	sum    *summarizer.FrequencySummarizer
}

// OllamaConfig configures the local generator. Zero values fall back to the
// conventional localhost defaults.
type OllamaConfig struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// NewOllamaGenerator creates a generator; no connection is made until Explain.
func NewOllamaGenerator(cfg OllamaConfig) *OllamaGenerator {
	if cfg.Host == "" {
		cfg.Host = defaultOllamaHost
	}
	if cfg.Model == "" {
		cfg.Model = defaultOllamaModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OllamaGenerator{
		host:   strings.TrimRight(cfg.Host, "/"),
		model:  cfg.Model,
		client: &http.Client{Timeout: cfg.Timeout},
		sum:    summarizer.New(),
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

// Explain sends a non-streaming chat request and returns the reply content.
func (g *OllamaGenerator) Explain(ctx context.Context, req Request) (string, error) {
	body := ollamaChatRequest{
		Model: g.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: ollamaSystemPrompt},
			{Role: "user", Content: BuildPrompt(req, g.sum)},
		},
		Stream: false,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.host+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama chat failed: %s", resp.Status)
	}

	var chat ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decoding ollama response: %w", err)
	}
	content := strings.TrimSpace(chat.Message.Content)
	if content == "" {
		return "", fmt.Errorf("ollama returned empty response")
	}
	return content, nil
}
