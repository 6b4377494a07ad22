package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scdproc/internal/scd"
)

// SampleOntology is a small YAML taxonomy used across tests. Titles
// containing "火锅" classify as Hotpot, "自助餐" as Buffet, "美食" as Food and
// "KTV" as Leisure.
const SampleOntology = `classes:
  - name: Food
    labels: [美食]
  - name: Hotpot
    parent: Food
    labels: [火锅]
  - name: Buffet
    parent: Food
    labels: [自助餐]
  - name: Leisure
    labels: [KTV]
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteOntology writes SampleOntology into dir and returns its path.
func WriteOntology(t testing.TB, dir string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, "tuan.yaml"), SampleOntology)
}

// WriteSCD writes records to path in SCD form. Each record is a flat list of
// key, value pairs; values must be single-line.
func WriteSCD(t testing.TB, path string, records ...[]string) string {
	t.Helper()

	var b strings.Builder
	for _, rec := range records {
		if len(rec)%2 != 0 {
			t.Fatalf("record %v has an odd number of elements", rec)
		}
		for i := 0; i < len(rec); i += 2 {
			b.WriteString("<" + rec[i] + ">" + rec[i+1] + "\n")
		}
	}
	return WriteFile(t, path, b.String())
}

// ReadSCD parses every record in path.
func ReadSCD(t testing.TB, path string) []*scd.Record {
	t.Helper()

	r, err := scd.Open(path, scd.ReaderOptions{})
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer r.Close()
	var out []*scd.Record
	for rec, err := range r.All() {
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		out = append(out, rec)
	}
	return out
}

// SingleSCD returns the only .SCD file in dir.
func SingleSCD(t testing.TB, dir string) string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	var found []string
	for _, e := range entries {
		if !e.IsDir() && scd.IsSCDName(e.Name()) {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	if len(found) != 1 {
		t.Fatalf("expected one SCD file in %s, found %v", dir, found)
	}
	return found[0]
}
