package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const userAgent = "taskforce/1.0 (+https://github.com/mohammad-safakhou/taskforce)"

// HTTPFetcher retrieves pages with a plain HTTP GET and extracts readable
// content with go-readability. It is the default fetcher; chromedp is only
// worth its weight for script-rendered pages.
type HTTPFetcher struct {
	client   *http.Client
	maxChars int
}

func NewHTTPFetcher(timeout time.Duration, maxChars int) *HTTPFetcher {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxChars: maxChars,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	if strings.TrimSpace(rawURL) == "" {
		return Result{}, errors.New("invalid url")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return Result{}, &ParseError{URL: rawURL, Err: err}
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = NoTitleSentinel
	}
	excerpt := strings.TrimSpace(article.TextContent)
	if len(excerpt) > f.maxChars {
		excerpt = excerpt[:f.maxChars]
	}
	return Result{URL: rawURL, Title: title, Excerpt: excerpt}, nil
}
