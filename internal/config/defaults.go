package config

const (
	defaultOntologyPath = "./tuan.owl"
	defaultTimeZone     = "UTC"
	defaultBoundaryKey  = "DOCID"
	defaultFlushBytes   = 64 * 1024
	defaultMaxLineBytes = 16 * 1024 * 1024
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	// Default names of the fields the pipeline interprets.
	DefaultTitleField    = "Title"
	DefaultTimeEndField  = "TimeEnd"
	DefaultCategoryField = "Category"

	// InvalidTimeFail aborts the run on an unparseable TimeEnd.
	InvalidTimeFail = "fail"
	// InvalidTimeSkip logs and drops a record with an unparseable TimeEnd.
	InvalidTimeSkip = "skip"

	// LabelName reports the matched class name.
	LabelName = "name"
	// LabelPath reports the matched class with its ancestors, root first.
	LabelPath = "path"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Ontology: defaultOntologyPath,
			StateDir: defaultStateDir(),
		},
		Fields: Fields{
			Title:    DefaultTitleField,
			TimeEnd:  DefaultTimeEndField,
			Category: DefaultCategoryField,
		},
		Filter: Filter{
			TimeZone:      defaultTimeZone,
			OnInvalidTime: InvalidTimeFail,
		},
		Ontology: Ontology{
			Label: LabelName,
		},
		SCD: SCD{
			BoundaryKey:  defaultBoundaryKey,
			FlushBytes:   defaultFlushBytes,
			MaxLineBytes: defaultMaxLineBytes,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
