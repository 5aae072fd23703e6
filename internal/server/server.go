package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/akolanti/TenderAPI/internal/adapter/utils"
	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/handlers"
	"github.com/akolanti/TenderAPI/internal/middleware"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// Routes is everything the router serves besides swagger and /metrics.
type Routes struct {
	Handler *handlers.Handler
	Proxy   http.Handler
	MCP     http.Handler
}

func RegisterRoutes(r chi.Router, routes Routes) {
	h := routes.Handler

	r.Post("/documents", middleware.Wrap(h.UploadDocuments))
	r.Get("/documents", middleware.Wrap(h.ListDocuments))
	r.Delete("/documents/{id}", middleware.Wrap(h.DeleteDocument))
	r.Post("/documents/{id}/toggle", middleware.Wrap(h.ToggleDocument))

	r.Post("/analyze", middleware.Wrap(h.Analyze))
	r.Get("/issues", middleware.Wrap(h.ListIssues))
	r.Post("/issues/{id}/questions", middleware.Wrap(h.CreateQuestion))
	r.Get("/questions", middleware.Wrap(h.ListQuestions))
	r.Post("/questions/{id}/response", middleware.Wrap(h.RespondToQuestion))
	r.Get("/status/{id}", middleware.Wrap(h.GetStatusHandler))

	if routes.Proxy != nil {
		proxy := middleware.WrapHandler(routes.Proxy)
		r.HandleFunc("/api/anthropic/messages", proxy)
		r.HandleFunc("/api/anthropic/v1/messages", proxy)
	}
	if routes.MCP != nil {
		r.Handle("/mcp", middleware.WrapHandler(withoutWriteDeadline(routes.MCP)))
	}
}

// withoutWriteDeadline lifts the server write timeout for the SSE stream.
func withoutWriteDeadline(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
		next.ServeHTTP(w, r)
	})
}

func CreateServer(listenAddr string, routes Routes) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()
	RegisterRoutes(r.Router, routes)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	log := logger_i.NewLogger("Server")
	state := <-shutdownParams.GracefulShutdown
	log.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			log.Error("Could not shutdown gracefully", "error", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		log.Info("Gracefully is shutting down")
	case <-ctx.Done():
		log.Info("Force Shut down")
		os.Exit(1)
	}
}
