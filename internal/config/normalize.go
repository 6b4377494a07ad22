package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFields()
	c.normalizeFilter()
	c.normalizeOntology()
	c.normalizeSCD()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("SCDPROC_ONTOLOGY"); ok && strings.TrimSpace(value) != "" {
		c.Paths.Ontology = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.Ontology) == "" {
		c.Paths.Ontology = defaultOntologyPath
	}
	if c.Paths.Ontology, err = expandPath(strings.TrimSpace(c.Paths.Ontology)); err != nil {
		return fmt.Errorf("paths.ontology: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFields() {
	c.Fields.Title = strings.TrimSpace(c.Fields.Title)
	c.Fields.TimeEnd = strings.TrimSpace(c.Fields.TimeEnd)
	c.Fields.Category = strings.TrimSpace(c.Fields.Category)
}

func (c *Config) normalizeFilter() {
	c.Filter.TimeZone = strings.TrimSpace(c.Filter.TimeZone)
	if c.Filter.TimeZone == "" {
		c.Filter.TimeZone = defaultTimeZone
	}
	c.Filter.OnInvalidTime = strings.ToLower(strings.TrimSpace(c.Filter.OnInvalidTime))
	if c.Filter.OnInvalidTime == "" {
		c.Filter.OnInvalidTime = InvalidTimeFail
	}
}

func (c *Config) normalizeOntology() {
	c.Ontology.Label = strings.ToLower(strings.TrimSpace(c.Ontology.Label))
	if c.Ontology.Label == "" {
		c.Ontology.Label = LabelName
	}
}

func (c *Config) normalizeSCD() {
	c.SCD.BoundaryKey = strings.TrimSpace(c.SCD.BoundaryKey)
	if c.SCD.BoundaryKey == "" {
		c.SCD.BoundaryKey = defaultBoundaryKey
	}
	if c.SCD.FlushBytes == 0 {
		c.SCD.FlushBytes = defaultFlushBytes
	}
	if c.SCD.MaxLineBytes == 0 {
		c.SCD.MaxLineBytes = defaultMaxLineBytes
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		return nil
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value, ok := os.LookupEnv("SCDPROC_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
