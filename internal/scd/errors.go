package scd

import (
	"fmt"

	"scdproc/internal/services"
)

// FormatError reports a malformed SCD unit.
type FormatError struct {
	Path   string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	where := e.Path
	if where == "" {
		where = "scd"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", where, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", where, e.Reason)
}

// Unwrap lets errors.Is(err, services.ErrFormat) match.
func (e *FormatError) Unwrap() error { return services.ErrFormat }
