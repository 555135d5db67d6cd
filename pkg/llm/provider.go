package llm

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means the backend has no credential and no call was made.
	ErrNotConfigured = errors.New("serviço de IA não configurado")
	// ErrRateLimited covers quota and throttling answers from the backend.
	ErrRateLimited = errors.New("limite de requisições do serviço de IA atingido")
	// ErrEmptyResponse means the backend answered without any text, e.g. a
	// safety block.
	ErrEmptyResponse = errors.New("serviço de IA retornou resposta vazia")
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	TopK        int
	TopP        float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithTopK(k int) Option {
	return func(o *Options) {
		o.TopK = k
	}
}

func WithTopP(p float64) Option {
	return func(o *Options) {
		o.TopP = p
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Apply folds opts over the given defaults.
func Apply(defaults Options, opts ...Option) *Options {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Configurable is implemented by providers that need a credential.
type Configurable interface {
	Configured() bool
}

// IsConfigured reports whether p can be called at all.
func IsConfigured(p LLMProvider) bool {
	if p == nil {
		return false
	}
	if c, ok := p.(Configurable); ok {
		return c.Configured()
	}
	return true
}
