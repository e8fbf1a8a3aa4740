package costing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"procura/internal/core/id"
	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/catalogs/unit"
)

// Source supplies the catalog data a snapshot is built from.
type Source interface {
	ListUnits(ctx context.Context) ([]unit.Unit, error)
	ListItems(ctx context.Context) ([]item.Item, error)
}

// Snapshot is a point-in-time, read-only copy of units and items.
// It is safe for concurrent use.
type Snapshot struct {
	graph    *Graph
	resolver *Resolver
	items    map[id.ID]item.Item

	// Diagnostics lists graph data problems found when the snapshot was built.
	Diagnostics []Warning

	// Generation increases with every swap into a Store.
	Generation uint64
	LoadedAt   time.Time
}

// NewSnapshot builds a snapshot. Duplicate item IDs keep the last occurrence.
func NewSnapshot(units []unit.Unit, items []item.Item) *Snapshot {
	g := NewGraph(units)
	idx := make(map[id.ID]item.Item, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return &Snapshot{
		graph:       g,
		resolver:    NewResolver(g),
		items:       idx,
		Diagnostics: g.Diagnose(),
		LoadedAt:    time.Now().UTC(),
	}
}

// Graph returns the unit graph.
func (s *Snapshot) Graph() *Graph {
	return s.graph
}

// Resolver returns a cost resolver bound to this snapshot.
func (s *Snapshot) Resolver() *Resolver {
	return s.resolver
}

// FindItem looks up an item by ID.
func (s *Snapshot) FindItem(itemID id.ID) (item.Item, bool) {
	it, ok := s.items[itemID]
	return it, ok
}

// Items returns all items ordered by code.
func (s *Snapshot) Items() []item.Item {
	out := make([]item.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// ItemCount returns the number of items.
func (s *Snapshot) ItemCount() int {
	return len(s.items)
}

// Store holds the current snapshot.
//
// Current is lock-free. Swap and Reload replace the whole snapshot at once,
// so a computation that already holds a snapshot finishes against it.
type Store struct {
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
	reloadMu   sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the active snapshot, or nil before the first load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap installs snap and returns the previous snapshot.
func (s *Store) Swap(snap *Snapshot) *Snapshot {
	snap.Generation = s.generation.Add(1)
	return s.current.Swap(snap)
}

// LoadWrapper runs a load, typically inside a read transaction.
type LoadWrapper func(ctx context.Context, fn func(ctx context.Context) error) error

// LoadSnapshot reads src and builds a snapshot without installing it.
func LoadSnapshot(ctx context.Context, src Source) (*Snapshot, error) {
	units, err := src.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	items, err := src.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return NewSnapshot(units, items), nil
}

// Reload builds a snapshot from src and swaps it in.
// On error the previous snapshot stays active.
func (s *Store) Reload(ctx context.Context, src Source) (*Snapshot, error) {
	return s.ReloadWithin(ctx, nil, src)
}

// ReloadWithin reads src inside wrap and swaps the result in only after wrap
// returns nil. A nil wrap reads src directly.
func (s *Store) ReloadWithin(ctx context.Context, wrap LoadWrapper, src Source) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	var snap *Snapshot
	load := func(ctx context.Context) error {
		var err error
		snap, err = LoadSnapshot(ctx, src)
		return err
	}

	var err error
	if wrap != nil {
		err = wrap(ctx, load)
	} else {
		err = load(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.Swap(snap)
	return snap, nil
}

// StaticSource serves fixed slices. Used for seed files and tests.
type StaticSource struct {
	Units []unit.Unit `json:"units"`
	Items []item.Item `json:"items"`
}

// ListUnits implements Source.
func (s *StaticSource) ListUnits(context.Context) ([]unit.Unit, error) {
	return append([]unit.Unit(nil), s.Units...), nil
}

// ListItems implements Source.
func (s *StaticSource) ListItems(context.Context) ([]item.Item, error) {
	return append([]item.Item(nil), s.Items...), nil
}
