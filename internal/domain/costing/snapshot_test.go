package costing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/catalogs/unit"
)

type failingSource struct {
	StaticSource
	err error
}

func (f *failingSource) ListItems(context.Context) ([]item.Item, error) {
	return nil, f.err
}

func TestStore_EmptyBeforeLoad(t *testing.T) {
	assert.Nil(t, NewStore().Current())
}

func TestStore_Reload(t *testing.T) {
	gram, kg, _ := massUnits()
	flour := *item.NewItem("FLOUR", "دقيق", "Flour", kg.ID, d("10"))
	src := &StaticSource{Units: []unit.Unit{gram, kg}, Items: []item.Item{flour}}
	store := NewStore()

	snap, err := store.Reload(context.Background(), src)
	require.NoError(t, err)
	assert.Same(t, snap, store.Current())
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Equal(t, 2, snap.Graph().Len())
	assert.Equal(t, 1, snap.ItemCount())

	got, ok := snap.FindItem(flour.ID)
	require.True(t, ok)
	assert.Equal(t, "FLOUR", got.Code)
}

func TestStore_SwapDoesNotDisturbHeldSnapshot(t *testing.T) {
	carton := *unit.NewUnit("CTN", "كرتون", "Carton")
	piece := *unit.Derive("PCS", "حبة", "Piece", carton.ID, d("12"))
	juice := *item.NewItem("JUICE", "عصير", "Juice", carton.ID, d("48"))
	store := NewStore()
	store.Swap(NewSnapshot([]unit.Unit{carton, piece}, []item.Item{juice}))

	held := store.Current()

	changed := piece
	changed.ConversionFactor = d("24")
	prev := store.Swap(NewSnapshot([]unit.Unit{carton, changed}, []item.Item{juice}))
	assert.Same(t, held, prev)

	old := held.Resolver().ResolveUnitCost(juice, piece.ID)
	assert.True(t, old.Cost.Equal(d("4")), "old snapshot cost %s", old.Cost)

	fresh := store.Current().Resolver().ResolveUnitCost(juice, piece.ID)
	assert.True(t, fresh.Cost.Equal(d("2")), "new snapshot cost %s", fresh.Cost)
	assert.Greater(t, store.Current().Generation, held.Generation)
}

func TestStore_FailedReloadKeepsPrevious(t *testing.T) {
	gram, kg, _ := massUnits()
	store := NewStore()
	first, err := store.Reload(context.Background(), &StaticSource{Units: []unit.Unit{gram, kg}})
	require.NoError(t, err)

	boom := errors.New("connection refused")
	_, err = store.Reload(context.Background(), &failingSource{err: boom})
	require.ErrorIs(t, err, boom)
	assert.Same(t, first, store.Current())
}

func TestStore_ReloadWithinSwapsAfterWrapSucceeds(t *testing.T) {
	gram, kg, _ := massUnits()
	src := &StaticSource{Units: []unit.Unit{gram, kg}}
	store := NewStore()
	first, err := store.Reload(context.Background(), src)
	require.NoError(t, err)

	commitErr := errors.New("commit failed")
	var seen *Snapshot
	_, err = store.ReloadWithin(context.Background(), func(ctx context.Context, fn func(context.Context) error) error {
		require.NoError(t, fn(ctx))
		seen = store.Current()
		return commitErr
	}, src)

	require.ErrorIs(t, err, commitErr)
	assert.Same(t, first, seen, "snapshot swapped before wrap returned")
	assert.Same(t, first, store.Current())
	assert.Equal(t, uint64(1), store.Current().Generation)

	second, err := store.ReloadWithin(context.Background(), func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}, src)
	require.NoError(t, err)
	assert.Same(t, second, store.Current())
	assert.Equal(t, uint64(2), second.Generation)
}

func TestStore_ConcurrentReadersDuringReload(t *testing.T) {
	carton := *unit.NewUnit("CTN", "كرتون", "Carton")
	piece := *unit.Derive("PCS", "حبة", "Piece", carton.ID, d("12"))
	juice := *item.NewItem("JUICE", "عصير", "Juice", carton.ID, d("48"))
	src := &StaticSource{Units: []unit.Unit{carton, piece}, Items: []item.Item{juice}}
	store := NewStore()
	_, err := store.Reload(context.Background(), src)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Reload(context.Background(), src)
		}()
		go func() {
			defer wg.Done()
			res := store.Current().Resolver().ResolveUnitCost(juice, piece.ID)
			assert.True(t, res.Cost.Equal(d("4")))
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(9), store.Current().Generation)
}

func TestSnapshot_ItemsOrderedByCode(t *testing.T) {
	gram, kg, _ := massUnits()
	b := *item.NewItem("B", "ب", "B", kg.ID, d("1"))
	a := *item.NewItem("A", "أ", "A", gram.ID, d("1"))
	snap := NewSnapshot([]unit.Unit{gram, kg}, []item.Item{b, a})

	items := snap.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Code)
	assert.Equal(t, "B", items[1].Code)
}
