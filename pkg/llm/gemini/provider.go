package gemini

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

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiProvider struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure GeminiProvider implements LLMProvider
var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	return &GeminiProvider{
		APIKey:    strings.TrimSpace(apiKey),
		BaseURL:   DefaultBaseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (g *GeminiProvider) Configured() bool {
	return g.APIKey != ""
}

// --- Request/Response structs (Internal to this package) ---

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// --- Interface Implementation ---

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	// 1. Short-circuit without credential
	if !g.Configured() {
		return "", llm.ErrNotConfigured
	}

	options := llm.Apply(llm.Options{Temperature: 0.7}, opts...)

	// 2. Map generic messages, system turns become the system instruction
	req := generateRequest{
		GenerationConfig: &generationConfig{
			Temperature:     options.Temperature,
			TopK:            options.TopK,
			TopP:            options.TopP,
			MaxOutputTokens: options.MaxTokens,
		},
	}
	var system []string
	for _, msg := range history {
		switch msg.Role {
		case "system":
			system = append(system, msg.Content)
		case "assistant", "model":
			req.Contents = append(req.Contents, content{Role: "model", Parts: []part{{Text: msg.Content}}})
		default:
			req.Contents = append(req.Contents, content{Role: "user", Parts: []part{{Text: msg.Content}}})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &content{Parts: []part{{Text: strings.Join(system, "\n\n")}}}
	}

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	// 3. Send
	var resp generateResponse
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.BaseURL, normalizeModel(model), g.APIKey)
	if err := g.doJSON(ctx, url, req, &resp); err != nil {
		return "", err
	}

	// 4. Parse
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		reason := "no candidates"
		switch {
		case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
			reason = "blocked: " + resp.PromptFeedback.BlockReason
		case len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "":
			reason = "finish reason: " + resp.Candidates[0].FinishReason
		}
		return "", fmt.Errorf("gemini: %w (%s)", llm.ErrEmptyResponse, reason)
	}
	var out strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	return out.String(), nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	return strings.TrimPrefix(model, "models/")
}

func (g *GeminiProvider) doJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.Unmarshal(raw, &errResp)
		if resp.StatusCode == http.StatusTooManyRequests || errResp.Error.Status == "RESOURCE_EXHAUSTED" {
			return fmt.Errorf("%w: %s", llm.ErrRateLimited, errResp.Error.Message)
		}
		if errResp.Error.Message != "" {
			return fmt.Errorf("gemini api error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("gemini api error: %s", resp.Status)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
