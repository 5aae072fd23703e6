package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds values that may be overridden from the environment (or a .env file).
// Credentials stay in here and are handed to the clients that need them, never to callers.
type Settings struct {
	ListenAddr string
	IsProd     bool

	LLMProvider string
	LLMModel    string
	LLMTimeout  time.Duration

	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicAPIURL  string
	AnthropicVersion string
	GeminiAPIKey     string
	OpenAIAPIKey     string

	ParserStrict bool

	RedisAddr     string
	RedisPassword string
}

// Load reads .env when present and resolves every setting against its default.
func Load() Settings {
	_ = godotenv.Load()

	s := Settings{
		ListenAddr:       getEnv("LISTEN_ADDR", ServerListenAddr),
		IsProd:           getBool("IS_PROD", IS_PROD),
		LLMProvider:      strings.ToLower(getEnv("LLM_PROVIDER", DefaultProvider)),
		LLMTimeout:       getDuration("LLM_TIMEOUT", DefaultLLMTimeout),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		AnthropicAPIURL:  getEnv("ANTHROPIC_API_URL", AnthropicAPIURL),
		AnthropicVersion: getEnv("ANTHROPIC_VERSION", DefaultAnthropicVersion),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		ParserStrict:     getBool("PARSER_STRICT", false),
		RedisAddr:        getEnv("REDIS_ADDR", RedisAddr),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
	}
	s.LLMModel = getEnv("LLM_MODEL", DefaultModelFor(s.LLMProvider))
	return s
}

func DefaultModelFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return DefaultAnthropicModel
	}
}

func getEnv(key string, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
