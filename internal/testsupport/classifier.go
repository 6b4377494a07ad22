package testsupport

import "strings"

// StubClassifier matches titles by plain substring against Keywords, in
// order. It records every title it sees.
type StubClassifier struct {
	Keywords [][2]string
	Calls    []string
}

// NewStubClassifier builds a classifier from keyword, label pairs.
func NewStubClassifier(pairs ...string) *StubClassifier {
	s := &StubClassifier{}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Keywords = append(s.Keywords, [2]string{pairs[i], pairs[i+1]})
	}
	return s
}

// Classify implements ontology.Classifier.
func (s *StubClassifier) Classify(title string) (string, bool) {
	s.Calls = append(s.Calls, title)
	for _, kw := range s.Keywords {
		if kw[0] != "" && strings.Contains(title, kw[0]) {
			return kw[1], true
		}
	}
	return "", false
}
