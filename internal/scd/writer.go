package scd

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"scdproc/internal/services"
)

const (
	defaultFlushBytes = 64 * 1024
	// LockFileName is the advisory lock held in the output directory while a
	// Writer is open.
	LockFileName = ".scdproc.lock"
)

// WriterOptions configures SCD serialization.
type WriterOptions struct {
	// BoundaryKey frames records; see ReaderOptions.
	BoundaryKey string
	// FlushBytes is the staged size at which complete records are written out.
	FlushBytes int
	// Now names the output file when the destination is a directory.
	Now time.Time
}

// Writer appends records to one SCD file. Output reaches the file only at
// record boundaries, so the file always ends with a complete record.
type Writer struct {
	path       string
	file       *os.File
	lock       *flock.Flock
	boundary   string
	flushBytes int

	pending   bytes.Buffer
	committed int64
	count     int
	closed    bool
}

// Create opens the destination for appending. When dest is an existing
// directory the file name is derived from opts.Now; otherwise dest is the file.
// The destination's directory must already exist. Failing to lock or open the
// destination is a resource error.
func Create(dest string, opts WriterOptions) (*Writer, error) {
	path, err := resolveDestination(dest, opts.Now)
	if err != nil {
		return nil, err
	}

	lockPath := filepath.Join(filepath.Dir(path), LockFileName)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrResource, services.StageWrite, "lock output", lockPath, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrResource, services.StageWrite, "lock output", "another run is writing to "+filepath.Dir(path), nil)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, services.Wrap(services.ErrResource, services.StageWrite, "open output", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		_ = lock.Unlock()
		return nil, services.Wrap(services.ErrResource, services.StageWrite, "stat output", path, err)
	}

	boundary := strings.TrimSpace(opts.BoundaryKey)
	if boundary == "" {
		boundary = DefaultBoundaryKey
	}
	flushBytes := opts.FlushBytes
	if flushBytes <= 0 {
		flushBytes = defaultFlushBytes
	}
	return &Writer{
		path:       path,
		file:       file,
		lock:       lock,
		boundary:   boundary,
		flushBytes: flushBytes,
		committed:  info.Size(),
	}, nil
}

func resolveDestination(dest string, now time.Time) (string, error) {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return "", services.Wrap(services.ErrResource, services.StageWrite, "resolve output", "empty output path", nil)
	}
	info, err := os.Stat(dest)
	switch {
	case err == nil && info.IsDir():
		if now.IsZero() {
			now = time.Now()
		}
		return filepath.Join(dest, FileName(now)), nil
	case err == nil:
		return dest, nil
	case errors.Is(err, fs.ErrNotExist):
		parent, perr := os.Stat(filepath.Dir(dest))
		if perr != nil || !parent.IsDir() {
			return "", services.Wrap(services.ErrResource, services.StageWrite, "resolve output", "parent directory of "+dest+" does not exist", perr)
		}
		return dest, nil
	default:
		return "", services.Wrap(services.ErrResource, services.StageWrite, "resolve output", dest, err)
	}
}

// Path returns the file records are appended to.
func (w *Writer) Path() string { return w.path }

// Count returns the number of records appended.
func (w *Writer) Count() int { return w.count }

// Append serializes rec in field insertion order. Records are staged in memory
// and written out in whole-record units.
func (w *Writer) Append(rec *Record) error {
	if w.closed {
		return services.Wrap(services.ErrIO, services.StageWrite, "append", "writer closed", nil)
	}
	if rec.Len() == 0 {
		return services.Wrap(services.ErrFormat, services.StageWrite, "append", "empty record", nil)
	}
	fields := rec.Fields()
	if fields[0].Key != w.boundary && (w.committed > 0 || w.pending.Len() > 0) {
		return services.Wrap(services.ErrFormat, services.StageWrite, "append",
			"record does not start with "+w.boundary+" and would merge into the previous record", nil)
	}
	for _, f := range fields {
		if !ValidKey(f.Key) {
			return services.Wrap(services.ErrFormat, services.StageWrite, "append", "invalid field name "+`"`+f.Key+`"`, nil)
		}
	}

	for _, f := range fields {
		encodeField(&w.pending, f)
	}
	w.count++

	if w.pending.Len() >= w.flushBytes {
		return w.flush()
	}
	return nil
}

func encodeField(buf *bytes.Buffer, f Field) {
	buf.WriteByte('<')
	buf.WriteString(f.Key)
	buf.WriteByte('>')
	lines := strings.Split(f.Value, "\n")
	buf.WriteString(lines[0])
	buf.WriteByte('\n')
	for _, line := range lines[1:] {
		if needsEscape(line) {
			buf.WriteByte('\\')
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

func (w *Writer) flush() error {
	if w.pending.Len() == 0 {
		return nil
	}
	n, err := w.file.Write(w.pending.Bytes())
	if err != nil {
		return services.Wrap(services.ErrIO, services.StageWrite, "flush", w.path, err)
	}
	w.committed += int64(n)
	w.pending.Reset()
	return nil
}

// Close writes staged records, syncs, and releases the file and lock. It is
// safe to call more than once; later calls return nil.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if err := w.flush(); err != nil {
		errs = append(errs, err)
		if terr := w.file.Truncate(w.committed); terr != nil {
			errs = append(errs, services.Wrap(services.ErrIO, services.StageWrite, "truncate", w.path, terr))
		}
	} else if err := w.file.Sync(); err != nil {
		errs = append(errs, services.Wrap(services.ErrIO, services.StageWrite, "sync", w.path, err))
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, services.Wrap(services.ErrIO, services.StageWrite, "close", w.path, err))
	}
	if err := w.lock.Unlock(); err != nil {
		errs = append(errs, services.Wrap(services.ErrIO, services.StageWrite, "unlock", w.path, err))
	}
	return errors.Join(errs...)
}

// Abort discards staged records, rolls the file back to the last complete
// record written, and releases the file and lock. It is a no-op after Close.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.pending.Reset()

	var errs []error
	if err := w.file.Truncate(w.committed); err != nil {
		errs = append(errs, services.Wrap(services.ErrIO, services.StageWrite, "truncate", w.path, err))
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, services.Wrap(services.ErrIO, services.StageWrite, "close", w.path, err))
	}
	if err := w.lock.Unlock(); err != nil {
		errs = append(errs, services.Wrap(services.ErrIO, services.StageWrite, "unlock", w.path, err))
	}
	return errors.Join(errs...)
}
