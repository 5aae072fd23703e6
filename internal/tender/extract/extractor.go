package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/akolanti/TenderAPI/internal/metrics"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"github.com/dslipak/pdf"
)

type State int32

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

const warmUpText = "extractor warm-up"

// TextExtractor turns PDF bytes into page-marked plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
	State() State
}

type Extractor struct {
	state       atomic.Int32
	mu          sync.Mutex
	cause       error
	pageTimeout time.Duration
	logger      *logger_i.Logger
}

// NewExtractor returns an extractor in the Loading state; call Bootstrap before use.
func NewExtractor(pageTimeout time.Duration) *Extractor {
	return &Extractor{
		pageTimeout: pageTimeout,
		logger:      logger_i.NewLogger("Extractor"),
	}
}

func (e *Extractor) State() State {
	return State(e.state.Load())
}

func (e *Extractor) Cause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cause
}

// Bootstrap decodes a generated one-page document to prove the PDF stack works,
// then opens the gate. A failed warm-up leaves the extractor rejecting all work.
func (e *Extractor) Bootstrap(ctx context.Context) error {
	text, err := e.extract(ctx, BuildPDF([]string{warmUpText}))
	if err == nil && !strings.Contains(text, warmUpText) {
		err = errors.New("warm-up document decoded to unexpected text")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.cause = err
		e.state.Store(int32(Failed))
		e.logger.Error("PDF extractor bootstrap failed", "error", err)
		return err
	}
	e.cause = nil
	e.state.Store(int32(Ready))
	e.logger.Info("PDF extractor ready")
	return nil
}

func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	if state := e.State(); state != Ready {
		metrics.CaptureExtraction("not_ready")
		return "", &tenderModel.ExtractionError{Reason: "extractor not ready (" + state.String() + ")", Err: e.Cause()}
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("pdf_extraction", time.Since(start)) }()

	text, err := e.extract(ctx, data)
	if err != nil {
		metrics.CaptureExtraction("failed")
		return "", err
	}
	metrics.CaptureExtraction("ok")
	return text, nil
}

func (e *Extractor) extract(ctx context.Context, data []byte) (string, error) {
	log := e.logger.Trace(ctx)
	if len(data) == 0 {
		return "", &tenderModel.ExtractionError{Reason: "empty document"}
	}

	reader, err := openPDF(data)
	if err != nil {
		log.Debug("failed opening of pdf", "error", err)
		return "", &tenderModel.ExtractionError{Reason: "not a valid PDF", Err: err}
	}

	numPages := reader.NumPage()
	log.Debug("extractPDF", "number of pages", numPages)
	if numPages == 0 {
		return "", &tenderModel.ExtractionError{Reason: "document has no pages"}
	}

	var fullText strings.Builder
	for i := 1; i <= numPages; i++ {
		content, err := e.extractPage(ctx, reader, i)
		if err != nil {
			// a partial document would silently skew the analysis
			log.Error("Error parsing page content", "page", i, "error", err)
			return "", &tenderModel.ExtractionError{Reason: fmt.Sprintf("page %d could not be decoded", i), Err: err}
		}
		fullText.WriteString(pageMarker(i))
		fullText.WriteString(content)
		fullText.WriteString("\n")
	}
	return fullText.String(), nil
}

func pageMarker(n int) string {
	return fmt.Sprintf("\n--- Page %d ---\n", n)
}

func openPDF(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}
