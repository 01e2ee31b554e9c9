package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/taskforce/internal/fault"
	"github.com/mohammad-safakhou/taskforce/internal/notify"
)

type stubSummarizer struct {
	out string
	err error
}

func (s stubSummarizer) Summarize(string) (string, error) { return s.out, s.err }

type stubExtractor struct {
	out string
	err error
}

func (s stubExtractor) ExtractText(string) (string, error) { return s.out, s.err }

func TestDataProcessorCSV(t *testing.T) {
	bus := notify.NewBus(8, nil)
	defer bus.Close()
	sub := bus.Subscribe()

	d := NewDataProcessor(bus, stubSummarizer{out: "rows=3 columns=2"}, stubExtractor{})
	o := d.Perform(context.Background(), Task{Input: "/uploads/report.csv"})
	if o.Status != StatusOk {
		t.Fatalf("status = %q, detail %q", o.Status, o.ErrorDetail)
	}
	if o.Result != "Data summary: rows=3 columns=2" {
		t.Fatalf("result = %q", o.Result)
	}
	evs := collectEvents(t, sub, 2)
	if evs[0].Message != "Processing file: /uploads/report.csv" {
		t.Fatalf("start event = %q", evs[0].Message)
	}
}

func TestDataProcessorPDF(t *testing.T) {
	bus := notify.NewBus(8, nil)
	defer bus.Close()

	d := NewDataProcessor(bus, stubSummarizer{}, stubExtractor{out: "first page text"})
	o := d.Perform(context.Background(), Task{Input: "/uploads/paper.PDF"})
	if o.Status != StatusOk {
		t.Fatalf("status = %q, detail %q", o.Status, o.ErrorDetail)
	}
	if o.Result != "Extracted text from PDF: first page text" {
		t.Fatalf("result = %q", o.Result)
	}
}

func TestDataProcessorUnsupportedExtension(t *testing.T) {
	bus := notify.NewBus(8, nil)
	defer bus.Close()
	sub := bus.Subscribe()

	d := NewDataProcessor(bus, stubSummarizer{}, stubExtractor{})
	o := d.Perform(context.Background(), Task{Input: "/uploads/archive.zip"})
	if o.Status != StatusFailed {
		t.Fatalf("status = %q", o.Status)
	}
	if o.ErrorKind != fault.UnsupportedInput {
		t.Fatalf("kind = %q, want unsupported_input", o.ErrorKind)
	}
	if !strings.Contains(o.ErrorDetail, `unsupported file type ".zip"`) {
		t.Fatalf("detail = %q", o.ErrorDetail)
	}
	evs := collectEvents(t, sub, 2)
	if !strings.Contains(evs[1].Message, "unsupported file type") {
		t.Fatalf("failure event = %q", evs[1].Message)
	}
}

func TestDataProcessorSummarizeFailure(t *testing.T) {
	bus := notify.NewBus(8, nil)
	defer bus.Close()

	d := NewDataProcessor(bus, stubSummarizer{err: errors.New("malformed row 7")}, stubExtractor{})
	o := d.Perform(context.Background(), Task{Input: "/uploads/bad.csv"})
	if o.Status != StatusFailed {
		t.Fatalf("status = %q", o.Status)
	}
	if o.ErrorKind != fault.Parse {
		t.Fatalf("kind = %q, want parse", o.ErrorKind)
	}
	if !strings.Contains(o.ErrorDetail, "error processing file /uploads/bad.csv") {
		t.Fatalf("detail = %q", o.ErrorDetail)
	}
}

func TestDataProcessorExtractFailure(t *testing.T) {
	bus := notify.NewBus(8, nil)
	defer bus.Close()

	d := NewDataProcessor(bus, stubSummarizer{}, stubExtractor{err: errors.New("encrypted document")})
	o := d.Perform(context.Background(), Task{Input: "/uploads/locked.pdf"})
	if o.Status != StatusFailed || o.ErrorKind != fault.Parse {
		t.Fatalf("status/kind = %q/%q", o.Status, o.ErrorKind)
	}
}
