package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var issuesProduced = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tender_issues_produced_total",
	Help: "Issues accepted from model replies.",
})

var droppedIssueEntries = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tender_issue_entries_dropped_total",
	Help: "Issue entries dropped by the lenient parser.",
})

var runFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tender_run_failures_total",
	Help: "Failed orchestrated runs labelled by use case and error kind.",
}, []string{"use_case", "kind"})

var documentsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tender_documents_extracted_total",
	Help: "Uploaded documents labelled by extraction outcome.",
}, []string{"outcome"})

// HttpStatusRecorder keeps the status code written by the wrapped handler.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers (the MCP SSE endpoint) working behind the recorder.
func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func AddIssuesProduced(n int) {
	issuesProduced.Add(float64(n))
}

func AddDroppedIssueEntries(n int) {
	droppedIssueEntries.Add(float64(n))
}

func CaptureRunFailure(useCase string, kind string) {
	runFailures.WithLabelValues(useCase, kind).Inc()
}

func CaptureExtraction(outcome string) {
	documentsExtracted.WithLabelValues(outcome).Inc()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent processing a queued run.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of pipeline steps and external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30, 60},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
