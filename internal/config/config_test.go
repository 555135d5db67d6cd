package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("CONVERSATION_STORE", "")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.Ai.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiration)
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "go duration", value: "45s", want: 45 * time.Second},
		{name: "plain seconds", value: "10", want: 10 * time.Second},
		{name: "garbage", value: "soon", want: time.Minute},
		{name: "empty", value: "", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestGetEnvAsBoolAndFloat(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_FLOAT", "0.25")

	assert.True(t, getEnvAsBool("TEST_BOOL", false))
	assert.False(t, getEnvAsBool("TEST_BOOL_MISSING", false))
	assert.Equal(t, 0.25, getEnvAsFloat("TEST_FLOAT", 1))
}
