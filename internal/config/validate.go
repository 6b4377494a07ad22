package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"scdproc/internal/services"
)

// Validate ensures the configuration is usable. Failures are configuration
// errors in the load stage.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validateFields,
		c.validateFilter,
		c.validateOntology,
		c.validateSCD,
		c.validateLogging,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, services.StageLoad, "validate config", "", err)
		}
	}
	return nil
}

func (c *Config) validateFields() error {
	names := map[string]string{
		"fields.title":    c.Fields.Title,
		"fields.time_end": c.Fields.TimeEnd,
		"fields.category": c.Fields.Category,
	}
	for _, key := range []string{"fields.title", "fields.time_end", "fields.category"} {
		if names[key] == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if c.Fields.Category == c.Fields.TimeEnd {
		return errors.New("fields.category must differ from fields.time_end")
	}
	return nil
}

func (c *Config) validateFilter() error {
	if _, err := time.LoadLocation(c.Filter.TimeZone); err != nil {
		return fmt.Errorf("filter.time_zone %q: %w", c.Filter.TimeZone, err)
	}
	switch c.Filter.OnInvalidTime {
	case InvalidTimeFail, InvalidTimeSkip:
	default:
		return fmt.Errorf("filter.on_invalid_time must be %q or %q, got %q", InvalidTimeFail, InvalidTimeSkip, c.Filter.OnInvalidTime)
	}
	return nil
}

func (c *Config) validateOntology() error {
	switch c.Ontology.Label {
	case LabelName, LabelPath:
		return nil
	default:
		return fmt.Errorf("ontology.label must be %q or %q, got %q", LabelName, LabelPath, c.Ontology.Label)
	}
}

func (c *Config) validateSCD() error {
	if strings.TrimSpace(c.SCD.BoundaryKey) == "" {
		return errors.New("scd.boundary_key must be set")
	}
	if err := ensurePositiveMap(map[string]int{
		"scd.flush_bytes":    c.SCD.FlushBytes,
		"scd.max_line_bytes": c.SCD.MaxLineBytes,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json; got %q", c.Logging.Format)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
