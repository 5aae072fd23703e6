package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dslipak/pdf"
)

var errPageTimeout = errors.New("page decode timeout")

func (e *Extractor) extractPage(ctx context.Context, reader *pdf.Reader, number int) (string, error) {
	page, err := loadPage(reader, number)
	if err != nil {
		return "", err
	}
	if page.V.IsNull() {
		return "", errors.New("page object is null")
	}
	return protectExtract(ctx, page, e.pageTimeout)
}

func loadPage(reader *pdf.Reader, number int) (page pdf.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page lookup panic: %v", r)
		}
	}()
	return reader.Page(number), nil
}

// protectExtract bounds a single page decode; the library has no cancellation of its own.
func protectExtract(ctx context.Context, page pdf.Page, timeout time.Duration) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page decode panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-timer.C:
		return "", errPageTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
