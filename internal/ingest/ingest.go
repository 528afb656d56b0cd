// Package ingest loads long-format readings CSVs and validates the
// basic schema, collecting human-readable issue strings for reporting.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

// RequiredColumns is the expected readings CSV header set, in canonical
// order. Column order in the file itself is free.
var RequiredColumns = []string{
	"timestamp",
	"engine_id",
	"load_kw",
	"rpm",
	"param",
	"value",
	"unit",
	"min",
	"max",
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Result carries the loaded rows plus any ingestion issues. Issues are
// informational: rows with unrecoverable nulls are already dropped.
type Result struct {
	Rows   []models.Reading
	Issues []string
}

// LoadReadingsCSV reads a readings file. A missing file or missing
// required columns come back as an empty result with an issue line, not
// an error; errors are reserved for unreadable input.
func LoadReadingsCSV(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Issues: []string{fmt.Sprintf("File not found: %s", path)}}, nil
		}
		return Result{}, fmt.Errorf("open readings: %w", err)
	}
	defer f.Close()

	return ParseReadings(f)
}

// ParseReadings parses readings CSV content from a reader.
func ParseReadings(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("read readings csv: %w", err)
	}
	if len(records) == 0 {
		return Result{Issues: []string{"Empty readings file"}}, nil
	}

	col := make(map[string]int)
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Result{
			Issues: []string{fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", "))},
		}, nil
	}

	var (
		rows    []models.Reading
		badTS   int
		badNums int
		issues  []string
	)

	for _, rec := range records[1:] {
		if len(rec) < len(records[0]) {
			badNums++
			continue
		}

		ts, ok := parseTimestamp(strings.TrimSpace(rec[col["timestamp"]]))
		if !ok {
			badTS++
			continue
		}

		engineID := strings.TrimSpace(rec[col["engine_id"]])
		param := strings.TrimSpace(rec[col["param"]])
		if engineID == "" || param == "" {
			badNums++
			continue
		}

		value, okV := parseFloat(rec[col["value"]])
		loadKW, okL := parseFloat(rec[col["load_kw"]])
		rpm, okR := parseFloat(rec[col["rpm"]])
		if !okV || !okL || !okR {
			badNums++
			continue
		}

		row := models.Reading{
			Timestamp: ts,
			EngineID:  engineID,
			Param:     param,
			Value:     value,
			Unit:      strings.TrimSpace(rec[col["unit"]]),
			LoadKW:    loadKW,
			RPM:       rpm,
		}
		// limits are optional per row; a blank cell means no limit
		if v, ok := parseFloat(rec[col["min"]]); ok {
			row.Min = models.Float64(v)
		}
		if v, ok := parseFloat(rec[col["max"]]); ok {
			row.Max = models.Float64(v)
		}

		rows = append(rows, row)
	}

	if badTS > 0 {
		issues = append(issues, fmt.Sprintf("%d rows have invalid timestamp", badTS))
	}
	if badNums > 0 {
		issues = append(issues, fmt.Sprintf("%d rows have invalid numeric values in load_kw/rpm/value", badNums))
	}

	return Result{Rows: rows, Issues: issues}, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
