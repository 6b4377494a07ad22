package scd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scdproc/internal/services"
)

func readAll(t *testing.T, r *Reader) []*Record {
	t.Helper()
	var out []*Record
	for rec, err := range r.All() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, rec)
	}
	return out
}

func TestReaderParsesRecords(t *testing.T) {
	input := strings.Join([]string{
		"<DOCID>a1",
		"<Title>Sports Final",
		"<TimeEnd>20991231235959",
		"<Price>19.9",
		"<DOCID>a2",
		"<Title>Spa day",
		"<TimeEnd>",
		"",
	}, "\n")

	recs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	want := []Field{
		{Key: "DOCID", Value: "a1"},
		{Key: "Title", Value: "Sports Final"},
		{Key: "TimeEnd", Value: "20991231235959"},
		{Key: "Price", Value: "19.9"},
	}
	if diff := cmp.Diff(want, recs[0].Fields()); diff != "" {
		t.Fatalf("first record mismatch (-want +got):\n%s", diff)
	}
	if v, ok := recs[1].Get("TimeEnd"); !ok || v != "" {
		t.Fatalf("expected present empty TimeEnd, got %q %v", v, ok)
	}
}

func TestReaderJoinsContinuationLines(t *testing.T) {
	input := "<DOCID>1\n<Content>line one\nline two\n\\<b>escaped\n\n<Title>t\n"
	recs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if got, want := recs[0].Value("Content"), "line one\nline two\n<b>escaped\n"; got != want {
		t.Fatalf("content mismatch: got %q want %q", got, want)
	}
	if recs[0].Value("Title") != "t" {
		t.Fatalf("unexpected title %q", recs[0].Value("Title"))
	}
}

func TestReaderKeepsBackslashThatEscapesNothing(t *testing.T) {
	input := "<DOCID>1\n<Content>line one\n\\share\n\\\\server\\share\n\\<b>bold\n\\\n"
	recs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	want := "line one\n\\share\n\\server\\share\n<b>bold\n\\"
	if got := recs[0].Value("Content"); got != want {
		t.Fatalf("content mismatch: got %q want %q", got, want)
	}
}

func TestReaderFirstRecordWithoutBoundary(t *testing.T) {
	input := "<Title>no id\n<TimeEnd>20991231000000\n<DOCID>2\n<Title>second\n"
	recs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if _, ok := recs[0].Get("DOCID"); ok {
		t.Fatal("first record should have no DOCID")
	}
	if recs[1].Value("DOCID") != "2" {
		t.Fatalf("unexpected second DOCID %q", recs[1].Value("DOCID"))
	}
}

func TestReaderCustomBoundaryKey(t *testing.T) {
	input := "<ID>1\n<Title>a\n<ID>2\n<Title>b\n"
	recs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{BoundaryKey: "ID"}))
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}

func TestReaderDuplicateKeyLastValueWins(t *testing.T) {
	input := "<DOCID>1\n<Title>first\n<Price>1\n<Title>second\nmore\n"
	recs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	want := []Field{
		{Key: "DOCID", Value: "1"},
		{Key: "Title", Value: "second\nmore"},
		{Key: "Price", Value: "1"},
	}
	if diff := cmp.Diff(want, recs[0].Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderSkipsLeadingBlankLinesAndBOM(t *testing.T) {
	input := "\ufeff\n   \n<DOCID>1\n"
	recs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	if len(recs) != 1 || recs[0].Value("DOCID") != "1" {
		t.Fatalf("unexpected records: %v", recs)
	}
}

func TestReaderPreservesCarriageReturns(t *testing.T) {
	input := "<DOCID>1\r\n<Title>crlf\r\n"
	recs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	if recs[0].Value("Title") != "crlf\r" {
		t.Fatalf("expected literal carriage return, got %q", recs[0].Value("Title"))
	}
}

func TestReaderFormatErrorReportsLine(t *testing.T) {
	input := "\ngarbage before fields\n<DOCID>1\n"
	r := NewReader(strings.NewReader(input), ReaderOptions{})
	_, err := r.Next()
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Line != 2 {
		t.Fatalf("expected line 2, got %d", fe.Line)
	}
	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat marker, got %v", err)
	}
	if _, again := r.Next(); !errors.Is(again, services.ErrFormat) {
		t.Fatalf("expected sticky error, got %v", again)
	}
}

func TestReaderLineTooLong(t *testing.T) {
	input := "<DOCID>1\n<Content>" + strings.Repeat("x", 200) + "\n"
	r := NewReader(strings.NewReader(input), ReaderOptions{MaxLineBytes: 64})
	_, err := r.Next()
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Line != 2 {
		t.Fatalf("expected FormatError on line 2, got %v", err)
	}
}

func TestReaderIsNotRestartable(t *testing.T) {
	r := NewReader(strings.NewReader("<DOCID>1\n<DOCID>2\n"), ReaderOptions{})
	if got := len(readAll(t, r)); got != 2 {
		t.Fatalf("expected 2 records, got %d", got)
	}
	if got := len(readAll(t, r)); got != 0 {
		t.Fatalf("second iteration should be empty, got %d", got)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReaderEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""), ReaderOptions{})
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestOpenMissingInputIsResourceError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.SCD"), ReaderOptions{})
	if !errors.Is(err, services.ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if _, err := Open(t.TempDir(), ReaderOptions{}); !errors.Is(err, services.ErrResource) {
		t.Fatalf("expected resource error for directory, got %v", err)
	}
}

func TestOpenClosesAfterIteration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.SCD")
	if err := os.WriteFile(path, []byte("<DOCID>1\n<Title>x\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	r, err := Open(path, ReaderOptions{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := len(readAll(t, r)); got != 1 {
		t.Fatalf("expected 1 record, got %d", got)
	}
	if !r.closed {
		t.Fatal("expected reader to release the file at EOF")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close after EOF should be a no-op: %v", err)
	}
	if r.Line() != 2 {
		t.Fatalf("expected 2 lines consumed, got %d", r.Line())
	}
}
