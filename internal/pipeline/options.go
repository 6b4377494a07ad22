package pipeline

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"scdproc/internal/config"
	"scdproc/internal/ontology"
	"scdproc/internal/scd"
	"scdproc/internal/services"
)

// TimeEndLayout is the YYYYMMDDHHMMSS expiry format.
const TimeEndLayout = "20060102150405"

// Invalid TimeEnd policies.
const (
	InvalidTimeFail = config.InvalidTimeFail
	InvalidTimeSkip = config.InvalidTimeSkip
)

// Fields names the record fields the driver interprets.
type Fields struct {
	Title    string
	TimeEnd  string
	Category string
}

// Options wires a Driver's dependencies.
type Options struct {
	Classifier ontology.Classifier
	// Clock supplies the reference time. Defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
	Fields Fields
	// Location interprets TimeEnd values. Defaults to UTC.
	Location *time.Location
	// InvalidTime is InvalidTimeFail (default) or InvalidTimeSkip.
	InvalidTime string
	Reader      scd.ReaderOptions
	Writer      scd.WriterOptions
	// RunID overrides the generated run identifier.
	RunID string
	// OnTransition observes every state change.
	OnTransition func(from, to State)
}

// OptionsFromConfig maps configuration onto Options. The caller supplies the
// classifier and logger.
func OptionsFromConfig(cfg *config.Config, classifier ontology.Classifier, logger *slog.Logger) (Options, error) {
	if cfg == nil {
		return Options{}, services.Wrap(services.ErrConfiguration, services.StageLoad, "build pipeline", "configuration is required", nil)
	}
	loc, err := time.LoadLocation(cfg.Filter.TimeZone)
	if err != nil {
		return Options{}, services.Wrap(services.ErrConfiguration, services.StageLoad, "build pipeline", fmt.Sprintf("time zone %q", cfg.Filter.TimeZone), err)
	}
	return Options{
		Classifier: classifier,
		Logger:     logger,
		Fields: Fields{
			Title:    cfg.Fields.Title,
			TimeEnd:  cfg.Fields.TimeEnd,
			Category: cfg.Fields.Category,
		},
		Location:    loc,
		InvalidTime: cfg.Filter.OnInvalidTime,
		Reader: scd.ReaderOptions{
			BoundaryKey:  cfg.SCD.BoundaryKey,
			MaxLineBytes: cfg.SCD.MaxLineBytes,
		},
		Writer: scd.WriterOptions{
			BoundaryKey: cfg.SCD.BoundaryKey,
			FlushBytes:  cfg.SCD.FlushBytes,
		},
	}, nil
}

func (o *Options) normalize() error {
	if o.Classifier == nil {
		return services.Wrap(services.ErrConfiguration, services.StageClassify, "build pipeline", "classifier is required", nil)
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if strings.TrimSpace(o.Fields.Title) == "" {
		o.Fields.Title = config.DefaultTitleField
	}
	if strings.TrimSpace(o.Fields.TimeEnd) == "" {
		o.Fields.TimeEnd = config.DefaultTimeEndField
	}
	if strings.TrimSpace(o.Fields.Category) == "" {
		o.Fields.Category = config.DefaultCategoryField
	}
	o.Reader.BoundaryKey = strings.TrimSpace(o.Reader.BoundaryKey)
	if o.Reader.BoundaryKey == "" {
		o.Reader.BoundaryKey = scd.DefaultBoundaryKey
	}
	if strings.TrimSpace(o.Writer.BoundaryKey) == "" {
		o.Writer.BoundaryKey = o.Reader.BoundaryKey
	}
	if !scd.ValidKey(o.Fields.Category) {
		return services.Wrap(services.ErrConfiguration, services.StageClassify, "build pipeline", fmt.Sprintf("invalid category field %q", o.Fields.Category), nil)
	}
	switch strings.ToLower(strings.TrimSpace(o.InvalidTime)) {
	case "", InvalidTimeFail:
		o.InvalidTime = InvalidTimeFail
	case InvalidTimeSkip:
		o.InvalidTime = InvalidTimeSkip
	default:
		return services.Wrap(services.ErrConfiguration, services.StageParse, "build pipeline", fmt.Sprintf("unknown invalid time policy %q", o.InvalidTime), nil)
	}
	return nil
}
