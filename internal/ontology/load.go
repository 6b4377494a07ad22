package ontology

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"scdproc/internal/services"
)

// document is the YAML and TOML taxonomy layout.
type document struct {
	Classes []Class `yaml:"classes" toml:"classes"`
}

// Load reads the taxonomy at path once. The format follows the extension:
// .owl, .rdf and .xml are OWL RDF/XML, .yaml and .yml are YAML, .toml is TOML.
// Any failure is a resource error in the load stage.
func Load(path string, opts Options) (*Taxonomy, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrResource, services.StageLoad, "load ontology", "no ontology path configured", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrResource, services.StageLoad, "load ontology", path, err)
	}

	classes, err := decode(path, data)
	if err != nil {
		return nil, services.Wrap(services.ErrResource, services.StageLoad, "decode ontology", path, err)
	}
	t, err := New(classes, opts)
	if err != nil {
		return nil, services.Wrap(services.ErrResource, services.StageLoad, "build ontology", path, err)
	}
	return t, nil
}

func decode(path string, data []byte) ([]Class, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".owl", ".rdf", ".xml":
		return decodeOWL(bytes.NewReader(data))
	case ".yaml", ".yml":
		var doc document
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return doc.Classes, nil
	case ".toml":
		var doc document
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		return doc.Classes, nil
	default:
		return nil, fmt.Errorf("unsupported ontology format %q", ext)
	}
}
