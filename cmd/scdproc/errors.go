package main

import (
	"fmt"

	"scdproc/internal/services"
)

// diagnostic renders a fatal error for stderr, naming the failed stage when
// the error carries one.
func diagnostic(err error) string {
	if err == nil {
		return ""
	}
	if stage := services.StageOf(err); stage != "" {
		return fmt.Sprintf("scdproc: %s stage failed (%s): %v", stage, services.Kind(err), err)
	}
	return fmt.Sprintf("scdproc: %v", err)
}
