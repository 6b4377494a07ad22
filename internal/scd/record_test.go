package scd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordPreservesInsertionOrder(t *testing.T) {
	rec := NewRecord(
		Field{Key: "DOCID", Value: "1"},
		Field{Key: "Title", Value: "Hot pot"},
		Field{Key: "TimeEnd", Value: "20300101000000"},
	)
	rec.Set("Category", "food")
	rec.Set("Title", "Hot pot for two")

	want := []Field{
		{Key: "DOCID", Value: "1"},
		{Key: "Title", Value: "Hot pot for two"},
		{Key: "TimeEnd", Value: "20300101000000"},
		{Key: "Category", Value: "food"},
	}
	if diff := cmp.Diff(want, rec.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"DOCID", "Title", "TimeEnd", "Category"}, rec.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordGetMissing(t *testing.T) {
	rec := NewRecord(Field{Key: "DOCID", Value: "1"})
	if _, ok := rec.Get("TimeEnd"); ok {
		t.Fatal("expected TimeEnd to be absent")
	}
	if rec.Value("TimeEnd") != "" {
		t.Fatal("expected empty value for missing key")
	}
	var nilRec *Record
	if nilRec.Len() != 0 || nilRec.Fields() != nil {
		t.Fatal("nil record should behave as empty")
	}
}

func TestFieldsReturnsCopy(t *testing.T) {
	rec := NewRecord(Field{Key: "DOCID", Value: "1"})
	fields := rec.Fields()
	fields[0].Value = "mutated"
	if rec.Value("DOCID") != "1" {
		t.Fatal("Fields must not expose internal storage")
	}
}
