package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestSummarizeNumericColumns(t *testing.T) {
	path := writeCSV(t, "city,temp\nBerlin,10\nOslo,2\nRome,18\n")

	got, err := CSVSummarizer{}.Summarize(path)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(got, "rows=3 columns=2") {
		t.Fatalf("missing shape line in %q", got)
	}
	if !strings.Contains(got, "temp: count=3 mean=10 std=8 min=2 max=18") {
		t.Fatalf("numeric column stats wrong in %q", got)
	}
	if !strings.Contains(got, "city: count=3 distinct=3") {
		t.Fatalf("non-numeric column stats wrong in %q", got)
	}
}

func TestSummarizeSingleValueHasZeroStd(t *testing.T) {
	path := writeCSV(t, "v\n42\n")
	got, err := CSVSummarizer{}.Summarize(path)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(got, "v: count=1 mean=42 std=0 min=42 max=42") {
		t.Fatalf("single-value stats wrong in %q", got)
	}
}

func TestSummarizeRejectsEmptyFile(t *testing.T) {
	path := writeCSV(t, "only,a,header\n")
	if _, err := (CSVSummarizer{}).Summarize(path); err == nil {
		t.Fatalf("expected error for a header-only file")
	}
}

func TestSummarizeMissingFile(t *testing.T) {
	if _, err := (CSVSummarizer{}).Summarize(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSummarizeMixedColumnIsNotNumeric(t *testing.T) {
	path := writeCSV(t, "v\n1\ntwo\n3\n")
	got, err := CSVSummarizer{}.Summarize(path)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if strings.Contains(got, "mean=") {
		t.Fatalf("mixed column reported numeric stats: %q", got)
	}
	if !strings.Contains(got, "v: count=3 distinct=3") {
		t.Fatalf("mixed column stats wrong in %q", got)
	}
}
