// Package seed reads a catalog from a JSON file. It backs the costing
// snapshot when no database is configured and feeds cmd/seed.
//
// File layout:
//
//	{
//	  "units": [{"id": "...", "code": "PCS", "nameAr": "حبة", "nameEn": "Piece",
//	             "baseUnitId": "...", "conversionFactor": "12"}],
//	  "items": [{"id": "...", "code": "JUICE", "nameAr": "عصير", "nameEn": "Juice",
//	             "defaultUnitId": "...", "price": "48"}]
//	}
//
// A missing conversionFactor or price loads as 0, the same as a NULL column.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/catalogs/unit"
	"procura/internal/domain/costing"
)

// Catalog is the decoded content of a seed file.
type Catalog struct {
	Units []unit.Unit `json:"units"`
	Items []item.Item `json:"items"`
}

// Parse decodes a seed document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for i := range c.Units {
		u := &c.Units[i]
		if id.IsNil(u.ID) {
			return nil, apperror.NewValidation("unit id is required").
				WithDetail("field", fmt.Sprintf("units[%d].id", i)).
				WithDetail("code", u.Code)
		}
		if u.BaseUnitID != nil && id.IsNil(*u.BaseUnitID) {
			u.BaseUnitID = nil
		}
	}
	for i := range c.Items {
		it := &c.Items[i]
		if id.IsNil(it.ID) {
			return nil, apperror.NewValidation("item id is required").
				WithDetail("field", fmt.Sprintf("items[%d].id", i)).
				WithDetail("code", it.Code)
		}
		if it.DefaultUnitID != nil && id.IsNil(*it.DefaultUnitID) {
			it.DefaultUnitID = nil
		}
	}
	return &c, nil
}

// ReadFile reads and decodes path.
func ReadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// FileSource implements costing.Source over a seed file. The file is
// re-read when its modification time or size changes, so a manual reload
// picks up edits.
type FileSource struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	catalog *Catalog
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat seed file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return s.catalog, nil
	}

	c, err := ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	s.catalog, s.modTime, s.size = c, info.ModTime(), info.Size()
	return c, nil
}

// ListUnits implements costing.Source.
func (s *FileSource) ListUnits(ctx context.Context) ([]unit.Unit, error) {
	c, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]unit.Unit(nil), c.Units...), nil
}

// ListItems implements costing.Source. Deletion-marked items are skipped,
// matching the database reader.
func (s *FileSource) ListItems(ctx context.Context) ([]item.Item, error) {
	c, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]item.Item, 0, len(c.Items))
	for _, it := range c.Items {
		if !it.DeletionMark {
			out = append(out, it)
		}
	}
	return out, nil
}

var _ costing.Source = (*FileSource)(nil)
