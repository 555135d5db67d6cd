package huggingface

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cadastro-prestador-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Olá!"}}]}`))
	}))
	defer srv.Close()

	out, err := NewHuggingFaceProvider("key", srv.URL, "model").Generate(context.Background(), "oi")

	require.NoError(t, err)
	assert.Equal(t, "Olá!", out)
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		rateLimited bool
		empty       bool
	}{
		{name: "too many requests", status: http.StatusTooManyRequests, body: `{}`, rateLimited: true},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`},
		{name: "error in ok body", status: http.StatusOK, body: `{"error":{"message":"bad model"}}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHuggingFaceProvider("key", srv.URL, "model").Generate(context.Background(), "oi")

			require.Error(t, err)
			assert.Equal(t, tt.rateLimited, errors.Is(err, llm.ErrRateLimited))
			assert.Equal(t, tt.empty, errors.Is(err, llm.ErrEmptyResponse))
		})
	}
}

func TestChatWithoutKey(t *testing.T) {
	_, err := NewHuggingFaceProvider("", "", "model").Generate(context.Background(), "oi")

	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}
