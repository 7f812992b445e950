package course

import (
	"context"

	"github.com/maroco/majormentor/internal/db"
)

// mockStore implements the store interface for tests.
type mockStore struct {
	result  *db.SearchResult
	err     error
	gotQ    *db.KNNQuery
	calls   int
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.calls++
	m.gotQ = q
	return m.result, m.err
}

// mockIngestStore implements the ingestStore interface for tests.
type mockIngestStore struct {
	exists     bool
	existsErr  error
	gotDef     *db.IndexDefinition
	gotItems   []db.HashSetItem
	dropped    []string
	setCalls   int
	createErr  error
	hsetErr    error
}

func (m *mockIngestStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	m.setCalls++
	m.gotItems = items
	return m.hsetErr
}

func (m *mockIngestStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	m.gotDef = def
	return m.createErr
}

func (m *mockIngestStore) IndexExists(_ context.Context, _ string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockIngestStore) DropIndex(_ context.Context, name string) error {
	m.dropped = append(m.dropped, name)
	return nil
}
