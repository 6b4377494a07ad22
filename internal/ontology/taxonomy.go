package ontology

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"scdproc/internal/textutil"
)

// Label modes for the value returned by Classify.
const (
	LabelName = "name"
	LabelPath = "path"
)

// PathSeparator joins ancestor names in LabelPath mode.
const PathSeparator = ">"

// Classifier maps a title to a category label. ok is false when nothing
// matches; the label is then "".
type Classifier interface {
	Classify(title string) (label string, ok bool)
}

// Class is one taxonomy node.
type Class struct {
	Name   string   `yaml:"name" toml:"name"`
	Parent string   `yaml:"parent,omitempty" toml:"parent,omitempty"`
	Labels []string `yaml:"labels,omitempty" toml:"labels,omitempty"`
}

// Options controls how classes are reported.
type Options struct {
	// Label selects LabelName (default) or LabelPath.
	Label string
}

type keyword struct {
	text  string
	runes int
	class int
}

type node struct {
	name  string
	depth int
	path  string
}

// Taxonomy is an immutable, loaded ontology. It is safe for concurrent use.
type Taxonomy struct {
	nodes    []node
	keywords []keyword
	label    string
}

// New builds a taxonomy from classes. Classes with an empty name are ignored.
// Repeated names merge their labels and keep the first parent. Unknown
// parents and cycles are treated as roots.
func New(classes []Class, opts Options) (*Taxonomy, error) {
	label := strings.ToLower(strings.TrimSpace(opts.Label))
	switch label {
	case "":
		label = LabelName
	case LabelName, LabelPath:
	default:
		return nil, fmt.Errorf("unsupported label mode %q", opts.Label)
	}

	merged := make([]Class, 0, len(classes))
	byName := make(map[string]int, len(classes))
	for _, c := range classes {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		if idx, ok := byName[name]; ok {
			merged[idx].Labels = append(merged[idx].Labels, c.Labels...)
			if merged[idx].Parent == "" {
				merged[idx].Parent = strings.TrimSpace(c.Parent)
			}
			continue
		}
		byName[name] = len(merged)
		merged = append(merged, Class{Name: name, Parent: strings.TrimSpace(c.Parent), Labels: append([]string(nil), c.Labels...)})
	}

	t := &Taxonomy{nodes: make([]node, len(merged)), label: label}
	for i, c := range merged {
		lineage := ancestry(merged, byName, i)
		t.nodes[i] = node{
			name:  c.Name,
			depth: len(lineage) - 1,
			path:  strings.Join(lineage, PathSeparator),
		}

		seen := make(map[string]struct{})
		words := c.Labels
		if len(words) == 0 {
			words = []string{c.Name}
		}
		for _, w := range words {
			norm := textutil.Normalize(w)
			if norm == "" {
				continue
			}
			if _, dup := seen[norm]; dup {
				continue
			}
			seen[norm] = struct{}{}
			t.keywords = append(t.keywords, keyword{text: norm, runes: utf8.RuneCountInString(norm), class: i})
		}
	}

	sort.SliceStable(t.keywords, func(a, b int) bool {
		ka, kb := t.keywords[a], t.keywords[b]
		if ka.runes != kb.runes {
			return ka.runes > kb.runes
		}
		na, nb := t.nodes[ka.class], t.nodes[kb.class]
		if na.depth != nb.depth {
			return na.depth > nb.depth
		}
		return na.name < nb.name
	})
	return t, nil
}

// ancestry returns the names from the root down to merged[i].
func ancestry(merged []Class, byName map[string]int, i int) []string {
	chain := []string{merged[i].Name}
	visited := map[int]struct{}{i: {}}
	cur := i
	for {
		parent, ok := byName[merged[cur].Parent]
		if !ok {
			break
		}
		if _, loop := visited[parent]; loop {
			break
		}
		visited[parent] = struct{}{}
		chain = append(chain, merged[parent].Name)
		cur = parent
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}

// Classify returns the label of the best matching class for title.
func (t *Taxonomy) Classify(title string) (string, bool) {
	if t == nil {
		return "", false
	}
	norm := textutil.Normalize(title)
	if norm == "" {
		return "", false
	}
	for _, kw := range t.keywords {
		if strings.Contains(norm, kw.text) {
			n := t.nodes[kw.class]
			if t.label == LabelPath {
				return n.path, true
			}
			return n.name, true
		}
	}
	return "", false
}

// Len returns the number of classes.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Keywords returns the number of distinct normalized keywords.
func (t *Taxonomy) Keywords() int {
	if t == nil {
		return 0
	}
	return len(t.keywords)
}

var _ Classifier = (*Taxonomy)(nil)
