package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"scdproc/internal/pipeline"
)

const (
	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"
)

func resolveSummaryFormat(requested string, out io.Writer) (string, error) {
	switch format := strings.ToLower(strings.TrimSpace(requested)); format {
	case "":
		if isTerminal(out) {
			return formatTable, nil
		}
		return formatText, nil
	case formatText, formatTable, formatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported --format %q (want text, table, or json)", requested)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// summaryLine is the batch-compatible "Total doc count : accepted - total" line.
func summaryLine(s pipeline.Summary) string {
	return fmt.Sprintf("Total doc count : %d - %d", s.Accepted, s.Total)
}

type summaryJSON struct {
	pipeline.Summary
	Dropped    int   `json:"dropped"`
	DurationMS int64 `json:"duration_ms"`
}

func renderSummary(out io.Writer, s pipeline.Summary, format string) error {
	switch format {
	case formatJSON:
		return encodeJSON(out, summaryJSON{Summary: s, Dropped: s.Dropped(), DurationMS: s.Duration.Milliseconds()})
	case formatTable:
		fmt.Fprintln(out, summaryLine(s))
		fmt.Fprintln(out, renderTable(tableSpec{
			Title:   "Run " + shortID(s.RunID),
			Headers: []string{"Records", "Count"},
			Rows: [][]string{
				{"Accepted", strconv.Itoa(s.Accepted)},
				{"Dropped (no TimeEnd)", strconv.Itoa(s.DroppedNoExpiry)},
				{"Dropped (expired)", strconv.Itoa(s.DroppedExpired)},
				{"Skipped (invalid TimeEnd)", strconv.Itoa(s.SkippedInvalid)},
				{"Unclassified", strconv.Itoa(s.Unclassified)},
			},
			Aligns: []columnAlignment{alignLeft, alignRight},
			Footer: []string{"Total", strconv.Itoa(s.Total)},
		}))
		fmt.Fprintf(out, "Output: %s\n", s.Output)
		return nil
	default:
		fmt.Fprintln(out, summaryLine(s))
		fmt.Fprintf(out, "accepted=%d dropped_no_expiry=%d dropped_expired=%d skipped_invalid=%d unclassified=%d\n",
			s.Accepted, s.DroppedNoExpiry, s.DroppedExpired, s.SkippedInvalid, s.Unclassified)
		fmt.Fprintf(out, "output=%s run_id=%s now=%s duration=%s\n",
			s.Output, s.RunID, s.Now.UTC().Format(time.RFC3339), s.Duration.Round(time.Millisecond))
		return nil
	}
}
