package docs

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVSummarizer produces per-column descriptive statistics for a CSV file.
type CSVSummarizer struct{}

// Summarize reads the file and reports count, mean, std, min and max for
// every numeric column, plus a distinct-value count for the rest. The first
// row is treated as the header.
func (CSVSummarizer) Summarize(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return "", fmt.Errorf("%s: no data rows", path)
	}

	header := rows[0]
	data := rows[1:]

	var b strings.Builder
	fmt.Fprintf(&b, "rows=%d columns=%d\n", len(data), len(header))
	for col, name := range header {
		values, distinct := columnValues(data, col)
		if len(values) > 0 {
			count, mean, std, minV, maxV := describe(values)
			fmt.Fprintf(&b, "%s: count=%d mean=%.4g std=%.4g min=%.4g max=%.4g\n",
				name, count, mean, std, minV, maxV)
			continue
		}
		fmt.Fprintf(&b, "%s: count=%d distinct=%d\n", name, rowCount(data, col), distinct)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// columnValues collects the numeric values of a column. A column counts as
// numeric only when every non-empty cell parses.
func columnValues(data [][]string, col int) ([]float64, int) {
	values := make([]float64, 0, len(data))
	seen := make(map[string]struct{})
	numeric := true
	for _, row := range data {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		seen[cell] = struct{}{}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false
			continue
		}
		values = append(values, v)
	}
	if !numeric {
		return nil, len(seen)
	}
	return values, len(seen)
}

func rowCount(data [][]string, col int) int {
	n := 0
	for _, row := range data {
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			n++
		}
	}
	return n
}

func describe(values []float64) (count int, mean, std, minV, maxV float64) {
	count = len(values)
	minV = math.Inf(1)
	maxV = math.Inf(-1)
	var sum float64
	for _, v := range values {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mean = sum / float64(count)
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	if count > 1 {
		std = math.Sqrt(sq / float64(count-1))
	}
	return count, mean, std, minV, maxV
}
