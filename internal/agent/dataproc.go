package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mohammad-safakhou/taskforce/internal/fault"
	"github.com/mohammad-safakhou/taskforce/internal/notify"
)

// Summarizer produces descriptive statistics for a tabular file.
type Summarizer interface {
	Summarize(path string) (string, error)
}

// TextExtractor extracts plain text from a paginated document.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// DataProcessor interprets the task as a validated filesystem path and
// branches on the extension: tabular summarization for .csv, text
// extraction for .pdf. Any other extension is an unsupported-input failure,
// never a silent fallthrough.
type DataProcessor struct {
	bus       *notify.Bus
	summarize Summarizer
	extract   TextExtractor
}

func NewDataProcessor(bus *notify.Bus, summarize Summarizer, extract TextExtractor) *DataProcessor {
	return &DataProcessor{bus: bus, summarize: summarize, extract: extract}
}

func (d *DataProcessor) Name() Name { return DataProcessing }

func (d *DataProcessor) Perform(_ context.Context, task Task) Outcome {
	start := time.Now()
	path := task.Input
	d.bus.Publish(notify.NewEvent(string(DataProcessing),
		fmt.Sprintf("Processing file: %s", path)))

	var (
		result string
		err    error
		kind   fault.Kind
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		var summary string
		summary, err = d.summarize.Summarize(path)
		if err != nil {
			kind = fault.Parse
			err = fmt.Errorf("error processing file %s: %w", path, err)
			break
		}
		result = fmt.Sprintf("Data summary: %s", summary)
	case ".pdf":
		var text string
		text, err = d.extract.ExtractText(path)
		if err != nil {
			kind = fault.Parse
			err = fmt.Errorf("error processing file %s: %w", path, err)
			break
		}
		result = fmt.Sprintf("Extracted text from PDF: %s", text)
	default:
		kind = fault.UnsupportedInput
		err = fmt.Errorf("unsupported file type %q for %s", ext, path)
	}

	if err != nil {
		d.bus.Publish(notify.NewEvent(string(DataProcessing), err.Error()))
		return failedOutcome(DataProcessing, kind, err, start)
	}
	d.bus.Publish(notify.NewEvent(string(DataProcessing), result))
	return okOutcome(DataProcessing, result, start)
}
