package factory

import (
	"fmt"

	"cadastro-prestador-be/pkg/llm"
	"cadastro-prestador-be/pkg/llm/gemini"
	"cadastro-prestador-be/pkg/llm/huggingface"
	"cadastro-prestador-be/pkg/llm/ollama"
)

// NewLLMProvider picks the generator backend by name. An empty name means
// Gemini.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "", "gemini":
		p := gemini.NewGeminiProvider(apiKey, modelName)
		if baseURL != "" {
			p.BaseURL = baseURL
		}
		return p, nil
	case "ollama":
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
