package scd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"scdproc/internal/services"
)

const defaultMaxLineBytes = 16 * 1024 * 1024

// ReaderOptions configures SCD parsing.
type ReaderOptions struct {
	// BoundaryKey starts a new record. Defaults to DOCID.
	BoundaryKey string
	// MaxLineBytes bounds a single input line. Defaults to 16 MiB.
	MaxLineBytes int
}

// Reader parses SCD text into records one at a time. It is not restartable:
// once it reports io.EOF or an error, every later call reports the same.
type Reader struct {
	path     string
	scanner  *bufio.Scanner
	closer   io.Closer
	boundary string

	line    int
	current *Record
	curKey  string
	err     error
	closed  bool
}

// Open opens path for reading. A missing, unreadable, or directory path is a
// resource error.
func Open(path string, opts ReaderOptions) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrResource, services.StageParse, "open input", path, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrResource, services.StageParse, "open input", path+" is a directory", nil)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrResource, services.StageParse, "open input", path, err)
	}
	r := NewReader(file, opts)
	r.path = path
	r.closer = file
	return r, nil
}

// NewReader parses SCD from src. Close is a no-op unless src was opened by Open.
func NewReader(src io.Reader, opts ReaderOptions) *Reader {
	boundary := strings.TrimSpace(opts.BoundaryKey)
	if boundary == "" {
		boundary = DefaultBoundaryKey
	}
	maxLine := opts.MaxLineBytes
	if maxLine <= 0 {
		maxLine = defaultMaxLineBytes
	}
	scanner := bufio.NewScanner(src)
	initial := 64 * 1024
	if initial > maxLine {
		initial = maxLine
	}
	scanner.Buffer(make([]byte, 0, initial), maxLine)
	scanner.Split(scanLF)
	return &Reader{scanner: scanner, boundary: boundary}
}

// Path returns the input path, or "" for readers built with NewReader.
func (r *Reader) Path() string { return r.path }

// Line returns the number of input lines consumed so far.
func (r *Reader) Line() int { return r.line }

// Next returns the next record, or io.EOF when the input is exhausted. The
// underlying file is closed as soon as Next reports io.EOF or an error.
func (r *Reader) Next() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if r.line == 1 {
			text = strings.TrimPrefix(text, utf8BOM)
		}

		key, value, ok := parseFieldLine(text)
		if !ok {
			if r.current == nil {
				if strings.TrimSpace(text) == "" {
					continue
				}
				return nil, r.fail(&FormatError{Path: r.path, Line: r.line, Reason: "content before the first field line"})
			}
			r.current.appendTo(r.curKey, unescape(text))
			continue
		}

		if r.current != nil && key == r.boundary {
			done := r.current
			r.start(key, value)
			return done, nil
		}
		if r.current == nil {
			r.start(key, value)
			continue
		}
		r.current.Set(key, value)
		r.curKey = key
	}

	if err := r.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, r.fail(&FormatError{Path: r.path, Line: r.line + 1, Reason: "line exceeds maximum length"})
		}
		return nil, r.fail(services.Wrap(services.ErrResource, services.StageParse, "read input", r.path, err))
	}

	if r.current != nil {
		done := r.current
		r.current = nil
		return done, nil
	}
	return nil, r.fail(io.EOF)
}

// All returns the remaining records as a lazy sequence. Iteration stops after
// the first error, which is yielded with a nil record.
func (r *Reader) All() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Close releases the input. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.err == nil {
		r.err = fmt.Errorf("scd: reader closed: %w", io.ErrClosedPipe)
	}
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// scanLF splits on '\n' only. Carriage returns stay in the value.
func scanLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func (r *Reader) start(key, value string) {
	r.current = &Record{}
	r.current.Set(key, value)
	r.curKey = key
}

func (r *Reader) fail(err error) error {
	r.err = err
	if !r.closed {
		r.closed = true
		if r.closer != nil {
			_ = r.closer.Close()
		}
	}
	return err
}
