// @title           Tender Clarification API
// @version         1.0
// @description     Upload tender PDFs, analyze them for issues, and draft clarification answers.

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/customHttpClient"
	"github.com/akolanti/TenderAPI/internal/data/store"
	jobmodel "github.com/akolanti/TenderAPI/internal/domain/jobModel"
	"github.com/akolanti/TenderAPI/internal/handlers"
	"github.com/akolanti/TenderAPI/internal/job"
	"github.com/akolanti/TenderAPI/internal/mcpServer"
	"github.com/akolanti/TenderAPI/internal/proxy"
	"github.com/akolanti/TenderAPI/internal/server"
	"github.com/akolanti/TenderAPI/internal/tender"
	"github.com/akolanti/TenderAPI/internal/tender/extract"
	"github.com/akolanti/TenderAPI/internal/tender/llm"
	"github.com/akolanti/TenderAPI/internal/tender/llm/anthropicLLM"
	"github.com/akolanti/TenderAPI/internal/tender/llm/gemini"
	"github.com/akolanti/TenderAPI/internal/tender/llm/openaiLLM"
	"github.com/akolanti/TenderAPI/internal/tender/parser"
	"github.com/akolanti/TenderAPI/internal/worker"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	settings := config.Load()

	logger_i.Init(settings.IsProd)
	var logger = logger_i.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", settings.ListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//the extractor must be warm before any upload is accepted
	extractor := extract.NewExtractor(config.PageTimeout)
	if err := extractor.Bootstrap(serviceContext); err != nil {
		logger.Error("Text extractor failed to start. Shutting down.", "error", err)
		return
	}

	llmProvider, err := newProvider(serviceContext, settings)
	if err != nil {
		logger.Error("LLM provider failed to initialize. Shutting down.", "provider", settings.LLMProvider, "error", err)
		return
	}

	//init job service, job store and session store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		Session:           store.InitSessionStore(),
	}
	if redisJobs := store.GetRedisJobStore(serviceContext, settings); redisJobs != nil {
		serviceConfig.JobStore = redisJobs
	} else {
		logger.Error("Redis job store is offline, keeping run status in memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	tenderService := tender.NewService(llmProvider, parser.NewParser(), settings)

	//init worker pool
	worker.InitServices(service, tenderService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	routes := server.Routes{
		Handler: handlers.NewHandler(service, extractor),
		Proxy:   proxy.NewAnthropicProxy(settings, customHttpClient.NewPooledClient(settings.LLMTimeout)),
		MCP:     mcpServer.NewHandler(service, tenderService),
	}

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, routes)

	<-stopExecution
	logger.Info("Server stopped")
}

func newProvider(ctx context.Context, settings config.Settings) (llm.Provider, error) {
	httpClient := customHttpClient.NewPooledClient(settings.LLMTimeout)

	switch settings.LLMProvider {
	case config.ProviderAnthropic:
		return anthropicLLM.NewAnthropicClient(settings, httpClient)
	case config.ProviderGemini:
		return gemini.NewGeminiClient(ctx, settings.GeminiAPIKey, httpClient, "")
	case config.ProviderOpenAI:
		return openaiLLM.NewOpenAIClient(settings.OpenAIAPIKey, httpClient, "")
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", settings.LLMProvider)
	}
}
