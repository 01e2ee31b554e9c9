package docs

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello..."},
		{"hello", 0, "hello"},
		{"", 3, ""},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.n); got != tc.want {
			t.Fatalf("Truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	e := PDFExtractor{MaxChars: 100}
	_, err := e.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "missing.pdf") {
		t.Fatalf("error %q does not name the file", err)
	}
}
