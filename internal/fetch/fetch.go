package fetch

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultTimeout  = 15 * time.Second
	MaxCharsDefault = 2000

	// NoTitleSentinel is returned when a page parses but carries no title.
	NoTitleSentinel = "No title found"
)

// ParseError marks a page that was retrieved but could not be extracted.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Result is the readable part of a fetched page.
type Result struct {
	URL     string
	Title   string
	Excerpt string
}

// Fetcher retrieves a page and extracts its readable content. One blocking
// call per invocation, bounded by the fetcher's timeout; no retries.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Result, error)
}

// Type selects a fetcher implementation.
type Type string

const (
	TypeHTTP     Type = "http"
	TypeChromedp Type = "chromedp"
)

// New builds a fetcher of the given type.
func New(t Type, timeout time.Duration, maxChars int) (Fetcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxChars <= 0 {
		maxChars = MaxCharsDefault
	}
	switch t {
	case TypeHTTP:
		return NewHTTPFetcher(timeout, maxChars), nil
	case TypeChromedp:
		return &ChromedpFetcher{Timeout: timeout, MaxChars: maxChars}, nil
	default:
		return nil, fmt.Errorf("unsupported fetcher type: %q", t)
	}
}
