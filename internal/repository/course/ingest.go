package course

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/maroco/majormentor/internal/db"
	"github.com/maroco/majormentor/internal/domain"
)

// ingestStore is the consumer interface for index builds (ISP).
type ingestStore interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	DropIndex(ctx context.Context, name string) error
}

// Doc is one document to be written into a vector index.
type Doc struct {
	ID     string
	Text   string
	Vector []float32
	Tags   map[string]string
}

// HNSWParams tunes the HNSW vector index.
type HNSWParams struct {
	M           int
	EFConstruct int
}

// Indexer writes documents and builds the FT index for one collection.
type Indexer struct {
	store      ingestStore
	collection string
	tagFields  []string
}

// NewIndexer creates an indexer over the collection. tagFields lists
// the metadata fields indexed as tags.
func NewIndexer(s ingestStore, collection string, tagFields []string) *Indexer {
	return &Indexer{store: s, collection: collection, tagFields: tagFields}
}

// EnsureIndex creates the FT index if it does not exist yet. rebuild
// drops an existing index first (documents are kept).
func (ix *Indexer) EnsureIndex(ctx context.Context, dims int, params HNSWParams, rebuild bool) error {
	name := ix.indexName()

	exists, err := ix.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		if !rebuild {
			return nil
		}
		if err := ix.store.DropIndex(ctx, name); err != nil {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
	}

	b := db.NewIndex(name).
		OnHash().
		Prefix(ix.keyPrefix())
	for _, f := range ix.tagFields {
		b = b.Tag(f)
	}
	def, err := b.
		VectorHNSW("vector", dims, db.DistanceCosine, params.M, params.EFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := ix.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// Store writes the documents as hashes under the collection key prefix.
func (ix *Indexer) Store(ctx context.Context, docs []Doc) error {
	if len(docs) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(docs))
	for _, d := range docs {
		fields := make(map[string]string, len(d.Tags)+2)
		for k, v := range d.Tags {
			if v != "" {
				fields[k] = v
			}
		}
		fields["__content"] = d.Text
		fields["vector"] = vectorToBytes(d.Vector)

		items = append(items, db.HashSetItem{
			Key:    ix.keyPrefix() + d.ID,
			Fields: fields,
		})
	}

	if err := ix.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store %s docs: %w", ix.collection, err)
	}
	return nil
}

func (ix *Indexer) indexName() string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, ix.collection)
}

func (ix *Indexer) keyPrefix() string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, ix.collection)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
