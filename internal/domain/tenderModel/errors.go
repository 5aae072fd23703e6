package tenderModel

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindExtraction        ErrorKind = "extraction"
	KindTransport         ErrorKind = "transport"
	KindUpstream          ErrorKind = "upstream"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindInternal          ErrorKind = "internal"
)

// ExtractionError reports a document that could not be turned into text.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return "extraction failed: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TransportError means the completion endpoint could not be reached or did not answer in time.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion endpoint unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("provider returned HTTP %d: %s", e.Status, e.Message)
}

// MalformedResponseError means the model answered but nothing usable could be extracted.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Reason, e.Err)
	}
	return "malformed model response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var extraction *ExtractionError
	var transport *TransportError
	var upstream *UpstreamError
	var malformed *MalformedResponseError
	switch {
	case errors.As(err, &extraction):
		return KindExtraction
	case errors.As(err, &transport):
		return KindTransport
	case errors.As(err, &upstream):
		return KindUpstream
	case errors.As(err, &malformed):
		return KindMalformedResponse
	default:
		return KindInternal
	}
}
