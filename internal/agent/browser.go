package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/taskforce/internal/fault"
	"github.com/mohammad-safakhou/taskforce/internal/fetch"
	"github.com/mohammad-safakhou/taskforce/internal/notify"
)

// Browser interprets the task as a URL, fetches the page once and reports
// its title. The fetch is bounded by timeout; there is no retry.
type Browser struct {
	bus     *notify.Bus
	fetcher fetch.Fetcher
	timeout time.Duration
}

func NewBrowser(bus *notify.Bus, fetcher fetch.Fetcher, timeout time.Duration) *Browser {
	if timeout <= 0 {
		timeout = fetch.DefaultTimeout
	}
	return &Browser{bus: bus, fetcher: fetcher, timeout: timeout}
}

func (b *Browser) Name() Name { return WebBrowser }

func (b *Browser) Perform(ctx context.Context, task Task) Outcome {
	start := time.Now()
	b.bus.Publish(notify.NewEvent(string(WebBrowser),
		fmt.Sprintf("Browsing the web for: %s", task.Input)))

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	res, err := b.fetcher.Fetch(ctx, task.Input)
	if err != nil {
		detail := fmt.Errorf("error browsing the web for %s: %w", task.Input, err)
		b.bus.Publish(notify.NewEvent(string(WebBrowser), detail.Error()))
		return failedOutcome(WebBrowser, classifyFetch(err), detail, start)
	}

	result := fmt.Sprintf("Page title for %s: %s", task.Input, res.Title)
	b.bus.Publish(notify.NewEvent(string(WebBrowser), result))
	return okOutcome(WebBrowser, result, start)
}

func classifyFetch(err error) fault.Kind {
	var pe *fetch.ParseError
	if errors.As(err, &pe) {
		return fault.Parse
	}
	return fault.Classify(err)
}
