package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("ANTHROPIC_VERSION", "")
	t.Setenv("PARSER_STRICT", "")

	s := Load()

	assert.Equal(t, ProviderAnthropic, s.LLMProvider)
	assert.Equal(t, DefaultAnthropicModel, s.LLMModel)
	assert.Equal(t, DefaultLLMTimeout, s.LLMTimeout)
	assert.Equal(t, DefaultAnthropicVersion, s.AnthropicVersion)
	assert.False(t, s.ParserStrict)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("PARSER_STRICT", "true")
	t.Setenv("ANTHROPIC_VERSION", "2024-01-01")

	s := Load()

	assert.Equal(t, ProviderGemini, s.LLMProvider)
	assert.Equal(t, DefaultGeminiModel, s.LLMModel)
	assert.Equal(t, 5*time.Second, s.LLMTimeout)
	assert.True(t, s.ParserStrict)
	assert.Equal(t, "2024-01-01", s.AnthropicVersion)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")
	assert.Equal(t, DefaultLLMTimeout, Load().LLMTimeout)
}
