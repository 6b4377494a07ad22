package scd

import (
	"fmt"
	"strings"
	"time"
)

// FileName returns the SF1R-style insert SCD name for a run started at t,
// e.g. B-00-201401021504-05123-I-C.SCD.
func FileName(t time.Time) string {
	return fmt.Sprintf("B-00-%s-%02d%03d-I-C.SCD", t.Format("200601021504"), t.Second(), t.Nanosecond()/int(time.Millisecond))
}

// IsSCDName reports whether name carries the .SCD extension.
func IsSCDName(name string) bool {
	return strings.HasSuffix(strings.ToUpper(name), ".SCD")
}
