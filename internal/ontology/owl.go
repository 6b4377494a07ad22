package ontology

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	nsRDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsOWL = "http://www.w3.org/2002/07/owl#"
)

type owlClass struct {
	ID     string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# ID,attr"`
	About  string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# about,attr"`
	Labels []struct {
		Text string `xml:",chardata"`
	} `xml:"http://www.w3.org/2000/01/rdf-schema# label"`
	SubClassOf []struct {
		Resource string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# resource,attr"`
	} `xml:"http://www.w3.org/2000/01/rdf-schema# subClassOf"`
}

// decodeOWL collects every owl:Class element in the document. Only the first
// rdfs:subClassOf with an rdf:resource is used as the parent.
func decodeOWL(r io.Reader) ([]Class, error) {
	dec := xml.NewDecoder(r)
	var (
		classes []Class
		sawRDF  bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse owl: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Space == nsRDF && start.Name.Local == "RDF" {
			sawRDF = true
			continue
		}
		if start.Name.Space != nsOWL || start.Name.Local != "Class" {
			continue
		}
		var raw owlClass
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return nil, fmt.Errorf("parse owl class: %w", err)
		}
		name := resourceName(raw.ID)
		if name == "" {
			name = resourceName(raw.About)
		}
		if name == "" {
			continue
		}
		c := Class{Name: name}
		for _, sub := range raw.SubClassOf {
			if parent := resourceName(sub.Resource); parent != "" {
				c.Parent = parent
				break
			}
		}
		for _, l := range raw.Labels {
			if text := strings.TrimSpace(l.Text); text != "" {
				c.Labels = append(c.Labels, text)
			}
		}
		classes = append(classes, c)
	}
	if !sawRDF {
		return nil, errors.New("parse owl: missing rdf:RDF root element")
	}
	return classes, nil
}

// resourceName reduces an RDF reference to its local name: the fragment
// after '#', else the last path segment.
func resourceName(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndexByte(ref, '#'); i >= 0 {
		return ref[i+1:]
	}
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
