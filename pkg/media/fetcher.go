// Package media retrieves remote images (profile photos, certificate scans) for embedding
// in generated documents.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// FailureKind classifies why an image could not be obtained.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureStatus    FailureKind = "status"
	FailureTransport FailureKind = "transport"
	FailureDecode    FailureKind = "decode"
)

// FetchError reports a failed fetch. Callers treat it as "skip this image".
type FetchError struct {
	Kind   FailureKind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailureStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// KindOf returns the failure kind of err, or "" when err is not a *FetchError.
func KindOf(err error) FailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Fetcher retrieves and decodes an image by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}

// HTTPFetcher fetches images over HTTP(S) with a bounded per-request time.
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	maxPixels int
}

// DefaultMaxBytes caps the size of a fetched image.
const DefaultMaxBytes = 20 << 20

// NewHTTPFetcher creates a fetcher whose every request is bounded by timeout. maxBytes caps
// the download and maxPixels the decoded image; zero selects the defaults.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64, maxPixels int) *HTTPFetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		timeout:   timeout,
		maxBytes:  maxBytes,
		maxPixels: maxPixels,
	}
}

// Fetch downloads url and decodes it. The caller's cancellation does not interrupt the
// request; only the fetcher's own timeout does.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: FailureTransport, URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: classify(err), URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: FailureStatus, URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{Kind: classify(err), URL: url, Err: err}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &FetchError{Kind: FailureDecode, URL: url, Err: fmt.Errorf("image larger than %d bytes", f.maxBytes)}
	}

	img, err := Decode(data, f.maxPixels)
	if err != nil {
		return nil, &FetchError{Kind: FailureDecode, URL: url, Err: err}
	}
	return img, nil
}

func classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FailureTimeout
	}
	return FailureTransport
}
