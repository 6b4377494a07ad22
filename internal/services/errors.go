package services

import (
	"errors"
	"strings"
)

var (
	// ErrResource marks missing, unreadable, or unwritable inputs, outputs, and
	// ontology files. Always fatal at startup.
	ErrResource = errors.New("resource error")
	// ErrFormat marks malformed SCD units and unparseable timestamps.
	ErrFormat = errors.New("format error")
	// ErrIO marks write and flush failures on the output destination.
	ErrIO            = errors.New("io error")
	ErrConfiguration = errors.New("configuration error")
)

// Stage names used when tagging errors and log lines.
const (
	StageLoad     = "load"
	StageParse    = "parse"
	StageClassify = "classify"
	StageWrite    = "write"
)

// Error is a failure tagged with a marker and the stage that produced it.
type Error struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	detail := buildDetail(e.Stage, e.Operation, e.Message)
	marker := e.Marker
	if marker == nil {
		marker = ErrIO
	}
	if e.Err != nil {
		return marker.Error() + ": " + detail + ": " + e.Err.Error()
	}
	return marker.Error() + ": " + detail
}

// Unwrap exposes both the marker and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Marker != nil {
		out = append(out, e.Marker)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap builds an error that includes stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrIO
	}
	return &Error{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Err:       err,
	}
}

// StageOf returns the stage recorded on the outermost tagged error in the
// chain, or "" when err carries no stage.
func StageOf(err error) string {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Stage
	}
	return ""
}

// Kind maps an error to a short classification used in run history and exit
// diagnostics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrResource):
		return "resource"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage != "" {
		parts = append(parts, stage)
	}
	if operation != "" {
		parts = append(parts, operation)
	}
	if message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
