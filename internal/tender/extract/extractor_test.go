package extract

import (
	"context"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var markerPattern = regexp.MustCompile(`--- Page (\d+) ---`)

func readyExtractor(t *testing.T) *Extractor {
	t.Helper()
	e := NewExtractor(5 * time.Second)
	require.NoError(t, e.Bootstrap(context.Background()))
	require.Equal(t, Ready, e.State())
	return e
}

func TestExtract_RejectsWorkBeforeBootstrap(t *testing.T) {
	e := NewExtractor(time.Second)
	assert.Equal(t, Loading, e.State())

	_, err := e.Extract(context.Background(), BuildPDF([]string{"hello"}))

	var extractionErr *tenderModel.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, err.Error(), "not ready")
}

func TestExtract_PageMarkersInOrder(t *testing.T) {
	e := readyExtractor(t)

	for _, pageCount := range []int{1, 3, 7} {
		t.Run(strconv.Itoa(pageCount), func(t *testing.T) {
			pages := make([]string, pageCount)
			for i := range pages {
				pages[i] = "Clause " + strconv.Itoa(i+1) + " concrete grade C30"
			}

			text, err := e.Extract(context.Background(), BuildPDF(pages))
			require.NoError(t, err)

			markers := markerPattern.FindAllStringSubmatch(text, -1)
			require.Len(t, markers, pageCount)
			for i, m := range markers {
				assert.Equal(t, strconv.Itoa(i+1), m[1])
			}
			assert.Contains(t, text, "Clause 1 concrete grade C30")
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	e := readyExtractor(t)
	doc := BuildPDF([]string{"Scope of works", "Bill of quantities (draft)"})

	first, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Bill of quantities (draft)")
}

func TestExtract_CorruptBytes(t *testing.T) {
	e := readyExtractor(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"plain text", []byte("this is definitely not a pdf document, just some words padded out to be long enough for the trailer probe")},
		{"truncated pdf", BuildPDF([]string{"one", "two"})[:200]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := e.Extract(context.Background(), tt.data)
			var extractionErr *tenderModel.ExtractionError
			require.ErrorAs(t, err, &extractionErr)
			assert.Empty(t, text)
			assert.Equal(t, tenderModel.KindExtraction, tenderModel.KindOf(err))
		})
	}
}

func TestExtract_NoPages(t *testing.T) {
	e := readyExtractor(t)
	_, err := e.Extract(context.Background(), BuildPDF(nil))
	assert.Equal(t, tenderModel.KindExtraction, tenderModel.KindOf(err))
}
