package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//worker level ceiling, the completion call has its own timeout below it
	JobTimeout = 90 * time.Second

	//uploads
	MaxUploadSize  = 32 << 20 //32mb
	PDFMimeType    = "application/pdf"
	PageTimeout    = 10 * time.Second
	ProxyBodyLimit = 2 << 20 //2mb, same as the upstream proxy

	//llm
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"

	DefaultProvider         = ProviderAnthropic
	DefaultAnthropicModel   = "claude-sonnet-4-20250514"
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultOpenAIModel      = "gpt-4o-mini"
	DefaultAnthropicVersion = "2023-06-01"
	AnthropicAPIURL         = "https://api.anthropic.com/v1/messages"
	DefaultLLMTimeout       = 60 * time.Second

	//prompt ceilings, in characters
	SingleAnalysisCharLimit = 15000
	MultiAnalysisCharLimit  = 25000

	SingleAnalysisMaxTokens   = 4000
	MultiAnalysisMaxTokens    = 6000
	QuestionResponseMaxTokens = 1000

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore = 0

	RedisJobStoreTTL = 24 * time.Hour

	//mcp
	MCPServerName    = "tender-clarifications"
	MCPServerVersion = "0.1.0"
)
