package factory

import (
	"testing"

	"cadastro-prestador-be/pkg/llm/gemini"
	"cadastro-prestador-be/pkg/llm/huggingface"
	"cadastro-prestador-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name         string
		providerType string
		wantErr      bool
		check        func(t *testing.T, p any)
	}{
		{name: "default is gemini", providerType: "", check: func(t *testing.T, p any) {
			assert.IsType(t, &gemini.GeminiProvider{}, p)
		}},
		{name: "ollama", providerType: "ollama", check: func(t *testing.T, p any) {
			o, ok := p.(*ollama.OllamaProvider)
			require.True(t, ok)
			assert.Equal(t, "http://localhost:11434", o.BaseURL)
		}},
		{name: "huggingface", providerType: "huggingface", check: func(t *testing.T, p any) {
			assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)
		}},
		{name: "unknown", providerType: "openai", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLLMProvider(tt.providerType, "model", "", "key")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}
