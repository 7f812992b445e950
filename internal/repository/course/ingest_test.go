package course

import (
	"context"
	"testing"

	"github.com/maroco/majormentor/internal/db"
)

var courseTagFields = []string{"university", "college", "department", "grade", "semester"}

func TestEnsureIndex_Creates(t *testing.T) {
	st := &mockIngestStore{}
	ix := NewIndexer(st, "course", courseTagFields)

	err := ix.EnsureIndex(context.Background(), 1024, HNSWParams{M: 32, EFConstruct: 400}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def := st.gotDef
	if def == nil {
		t.Fatal("index not created")
	}
	if def.Name != "mentor:course:idx" {
		t.Errorf("index name = %q", def.Name)
	}
	if def.StorageType != db.StorageHash {
		t.Errorf("storage = %q", def.StorageType)
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != "mentor:course:" {
		t.Errorf("prefixes = %v", def.Prefixes)
	}

	// 5 tag fields plus the vector field.
	if len(def.Fields) != 6 {
		t.Fatalf("fields = %d", len(def.Fields))
	}
	vec := def.Fields[len(def.Fields)-1]
	if vec.Type != db.IndexFieldVector || vec.Name != "vector" {
		t.Errorf("vector field = %+v", vec)
	}
	if vec.VectorDim != 1024 || vec.VectorM != 32 || vec.VectorEFConstruct != 400 {
		t.Errorf("vector params = %+v", vec)
	}
	if vec.VectorDistance != db.DistanceCosine {
		t.Errorf("distance = %q", vec.VectorDistance)
	}
}

func TestEnsureIndex_SkipsExisting(t *testing.T) {
	st := &mockIngestStore{exists: true}
	ix := NewIndexer(st, "course", courseTagFields)

	if err := ix.EnsureIndex(context.Background(), 1024, HNSWParams{M: 32, EFConstruct: 400}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.gotDef != nil {
		t.Error("index recreated")
	}
}

func TestEnsureIndex_Rebuild(t *testing.T) {
	st := &mockIngestStore{exists: true}
	ix := NewIndexer(st, "major", []string{"major_id", "major_name", "doc_type"})

	if err := ix.EnsureIndex(context.Background(), 1024, HNSWParams{M: 32, EFConstruct: 400}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.dropped) != 1 || st.dropped[0] != "mentor:major:idx" {
		t.Errorf("dropped = %v", st.dropped)
	}
	if st.gotDef == nil {
		t.Error("index not recreated after drop")
	}
}

func TestIndexerStore(t *testing.T) {
	st := &mockIngestStore{}
	ix := NewIndexer(st, "course", courseTagFields)

	docs := []Doc{{
		ID:     "c1",
		Text:   "과목명: 자료구조",
		Vector: []float32{1.0},
		Tags: map[string]string{
			"department": "컴퓨터공학",
			"grade":      "",
		},
	}}
	if err := ix.Store(context.Background(), docs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(st.gotItems) != 1 {
		t.Fatalf("items = %d", len(st.gotItems))
	}
	item := st.gotItems[0]
	if item.Key != "mentor:course:c1" {
		t.Errorf("key = %q", item.Key)
	}
	if item.Fields["__content"] != "과목명: 자료구조" {
		t.Errorf("content = %q", item.Fields["__content"])
	}
	if item.Fields["department"] != "컴퓨터공학" {
		t.Errorf("department = %q", item.Fields["department"])
	}
	if _, ok := item.Fields["grade"]; ok {
		t.Error("empty tag stored")
	}
	// 1.0 little-endian float32
	if item.Fields["vector"] != "\x00\x00\x80\x3f" {
		t.Errorf("vector bytes = %x", item.Fields["vector"])
	}
}

func TestIndexerStore_Empty(t *testing.T) {
	st := &mockIngestStore{}
	ix := NewIndexer(st, "course", courseTagFields)

	if err := ix.Store(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.setCalls != 0 {
		t.Error("unexpected write for empty batch")
	}
}
