// Package catalog loads the flat JSON stores backing the major catalog:
// the major detail records, the university alias mapping and the major
// category table.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/maroco/majormentor/internal/domain/major"
	"github.com/maroco/majormentor/internal/extract"
)

// Loader reads each store at most once and caches the parsed result.
// Safe for concurrent use.
type Loader struct {
	detailPath     string
	mappingPath    string
	categoriesPath string

	detailOnce sync.Once
	records    []major.Record
	detailErr  error

	mappingOnce sync.Once
	mappings    []extract.UniversityMapping
	mappingErr  error

	categoriesOnce sync.Once
	categories     map[string][]string
	categoriesErr  error
}

// NewLoader creates a loader over the three store files.
func NewLoader(detailPath, mappingPath, categoriesPath string) *Loader {
	return &Loader{
		detailPath:     detailPath,
		mappingPath:    mappingPath,
		categoriesPath: categoriesPath,
	}
}

// MajorRecords loads the major detail store. Records without an id or
// name are dropped.
func (l *Loader) MajorRecords() ([]major.Record, error) {
	l.detailOnce.Do(func() {
		data, err := os.ReadFile(l.detailPath)
		if err != nil {
			l.detailErr = fmt.Errorf("read major detail: %w", err)
			return
		}

		var dtos []majorDTO
		if err := json.Unmarshal(data, &dtos); err != nil {
			l.detailErr = fmt.Errorf("parse major detail: %w", err)
			return
		}

		records := make([]major.Record, 0, len(dtos))
		for _, dto := range dtos {
			if dto.MajorID == "" || dto.MajorName == "" {
				continue
			}
			records = append(records, dto.toDomain())
		}
		l.records = records
	})
	return l.records, l.detailErr
}

type universityDTO struct {
	OfficialNameKo string   `json:"official_name_ko"`
	AliasesKo      []string `json:"aliases_ko"`
	SlangKo        []string `json:"slang_ko"`
}

// UniversityMappings loads the university alias table.
func (l *Loader) UniversityMappings() ([]extract.UniversityMapping, error) {
	l.mappingOnce.Do(func() {
		data, err := os.ReadFile(l.mappingPath)
		if err != nil {
			l.mappingErr = fmt.Errorf("read university mapping: %w", err)
			return
		}

		var dtos []universityDTO
		if err := json.Unmarshal(data, &dtos); err != nil {
			l.mappingErr = fmt.Errorf("parse university mapping: %w", err)
			return
		}

		mappings := make([]extract.UniversityMapping, 0, len(dtos))
		for _, dto := range dtos {
			if dto.OfficialNameKo == "" {
				continue
			}
			mappings = append(mappings, extract.UniversityMapping{
				Official: dto.OfficialNameKo,
				Aliases:  dto.AliasesKo,
				Slang:    dto.SlangKo,
			})
		}
		l.mappings = mappings
	})
	return l.mappings, l.mappingErr
}

// Categories loads the category table mapping a top-level field to its
// member keyword groups. A missing file is not an error: category
// expansion simply stays disabled.
func (l *Loader) Categories() (map[string][]string, error) {
	l.categoriesOnce.Do(func() {
		data, err := os.ReadFile(l.categoriesPath)
		if err != nil {
			if os.IsNotExist(err) {
				l.categories = map[string][]string{}
				return
			}
			l.categoriesErr = fmt.Errorf("read major categories: %w", err)
			return
		}

		var categories map[string][]string
		if err := json.Unmarshal(data, &categories); err != nil {
			l.categoriesErr = fmt.Errorf("parse major categories: %w", err)
			return
		}
		l.categories = categories
	})
	return l.categories, l.categoriesErr
}
