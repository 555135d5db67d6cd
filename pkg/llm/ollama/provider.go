package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cadastro-prestador-be/pkg/llm"
)

const DefaultBaseURL = "http://localhost:11434"

// OllamaProvider talks to a local Ollama server through /api/chat.
type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

var _ llm.LLMProvider = (*OllamaProvider)(nil)

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OllamaProvider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		ModelName: modelName,
		Client:    &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *modelOptions `json:"options,omitempty"`
}

type modelOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopK        int     `json:"top_k,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Message llm.Message `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

// Configured reports whether a model was chosen. Ollama needs no key.
func (o *OllamaProvider) Configured() bool {
	return strings.TrimSpace(o.ModelName) != ""
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if !o.Configured() {
		return "", llm.ErrNotConfigured
	}
	options := llm.Apply(llm.Options{Model: o.ModelName, Temperature: 0.7}, opts...)

	// Ollama only knows system, user and assistant
	messages := make([]llm.Message, len(history))
	for i, msg := range history {
		if msg.Role == "model" {
			msg.Role = "assistant"
		}
		messages[i] = msg
	}

	payload, err := json.Marshal(chatRequest{
		Model:    options.Model,
		Messages: messages,
		Options: &modelOptions{
			Temperature: options.Temperature,
			TopK:        options.TopK,
			TopP:        options.TopP,
			NumPredict:  options.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama: read response: %w", err)
	}

	var out chatResponse
	_ = json.Unmarshal(body, &out)

	switch {
	// 503 is what Ollama answers when its request queue is full
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		return "", fmt.Errorf("ollama: %w: %s", llm.ErrRateLimited, out.Error)
	case resp.StatusCode != http.StatusOK:
		msg := out.Error
		if msg == "" {
			msg = string(body)
		}
		return "", fmt.Errorf("ollama: status %d: %s", resp.StatusCode, msg)
	case out.Error != "":
		return "", fmt.Errorf("ollama: %s", out.Error)
	}

	return out.Message.Content, nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
