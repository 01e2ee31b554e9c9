package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	readability "github.com/go-shiori/go-readability"
)

// ChromedpFetcher renders the page in headless Chrome before extraction.
// Needed for pages that only produce their content client-side.
type ChromedpFetcher struct {
	Timeout  time.Duration
	MaxChars int
}

func (f *ChromedpFetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	if strings.TrimSpace(rawURL) == "" {
		return Result{}, errors.New("invalid url")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("parse url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	html, err := f.renderHTML(ctx, rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("render %s: %w", rawURL, err)
	}

	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return Result{}, &ParseError{URL: rawURL, Err: err}
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = NoTitleSentinel
	}
	excerpt := strings.TrimSpace(article.TextContent)
	if len(excerpt) > f.MaxChars {
		excerpt = excerpt[:f.MaxChars]
	}
	return Result{URL: rawURL, Title: title, Excerpt: excerpt}, nil
}

func (f *ChromedpFetcher) renderHTML(ctx context.Context, rawURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(userAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}
