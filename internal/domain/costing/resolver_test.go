package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/catalogs/unit"
)

func TestResolveUnitCost_Identity(t *testing.T) {
	gram, kg, _ := massUnits()
	r := NewResolver(NewGraph([]unit.Unit{gram, kg}))
	rice := *item.NewItem("RICE", "أرز", "Rice", kg.ID, d("12.75"))

	for _, target := range []id.ID{kg.ID, id.Nil()} {
		res := r.ResolveUnitCost(rice, target)
		assert.Equal(t, DirectionIdentity, res.Direction)
		assert.True(t, res.Cost.Equal(d("12.75")))
		assert.Empty(t, res.Warnings)
	}
}

func TestResolveUnitCost_PieceFromCarton(t *testing.T) {
	// "12 Piece = 1 Carton" recorded on Piece.
	carton := *unit.NewUnit("CTN", "كرتون", "Carton")
	piece := *unit.Derive("PCS", "حبة", "Piece", carton.ID, d("12"))
	r := NewResolver(NewGraph([]unit.Unit{carton, piece}))
	juice := *item.NewItem("JUICE", "عصير", "Juice", carton.ID, d("48"))

	res := r.ResolveUnitCost(juice, piece.ID)

	assert.Equal(t, DirectionUpward, res.Direction)
	assert.True(t, res.Cost.Equal(d("4")), "cost %s", res.Cost)
	assert.True(t, res.Factor.Equal(d("12")))
	assert.Empty(t, res.Warnings)
	assert.True(t, res.Converted())
}

func TestResolveUnitCost_GramFromKg(t *testing.T) {
	// "1 Kg = 1000 Gram" recorded on Kg.
	gram, kg, _ := massUnits()
	r := NewResolver(NewGraph([]unit.Unit{gram, kg}))
	flour := *item.NewItem("FLOUR", "دقيق", "Flour", kg.ID, d("10"))

	res := r.ResolveUnitCost(flour, gram.ID)

	assert.Equal(t, DirectionDownward, res.Direction)
	assert.True(t, res.Cost.Equal(d("0.01")), "cost %s", res.Cost)
	assert.Equal(t, []id.ID{kg.ID, gram.ID}, res.Path)
}

func TestResolveUnitCost_Associative(t *testing.T) {
	gram, kg, ton := massUnits()
	r := NewResolver(NewGraph([]unit.Unit{gram, kg, ton}))

	direct := r.ResolveUnitCost(*item.NewItem("SAND", "رمل", "Sand", ton.ID, d("5000")), gram.ID)

	perKg := r.ResolveUnitCost(*item.NewItem("SAND", "رمل", "Sand", ton.ID, d("5000")), kg.ID)
	stepped := r.ResolveUnitCost(*item.NewItem("SAND", "رمل", "Sand", kg.ID, perKg.Cost), gram.ID)

	diff := direct.Cost.Sub(stepped.Cost).Abs()
	assert.True(t, diff.LessThan(d("0.000001")), "direct %s stepped %s", direct.Cost, stepped.Cost)
	assert.True(t, direct.Cost.Equal(d("0.005")))
}

func TestResolveUnitCost_AssociativeWithRepeatingFactors(t *testing.T) {
	base := *unit.NewUnit("B", "أساس", "Base")
	mid := *unit.Derive("M", "وسط", "Mid", base.ID, d("3"))
	top := *unit.Derive("T", "أعلى", "Top", mid.ID, d("7"))
	r := NewResolver(NewGraph([]unit.Unit{base, mid, top}))

	direct := r.ResolveUnitCost(*item.NewItem("X", "س", "X", top.ID, d("100")), base.ID)
	perMid := r.ResolveUnitCost(*item.NewItem("X", "س", "X", top.ID, d("100")), mid.ID)
	stepped := r.ResolveUnitCost(*item.NewItem("X", "س", "X", mid.ID, perMid.Cost), base.ID)

	diff := direct.Cost.Sub(stepped.Cost).Abs()
	assert.True(t, diff.LessThan(d("0.000001")), "direct %s stepped %s", direct.Cost, stepped.Cost)
}

func TestResolveUnitCost_NoPathFallsBack(t *testing.T) {
	gram, kg, _ := massUnits()
	litre := *unit.NewUnit("L", "لتر", "Litre")
	r := NewResolver(NewGraph([]unit.Unit{gram, kg, litre}))
	flour := *item.NewItem("FLOUR", "دقيق", "Flour", kg.ID, d("10"))

	res := r.ResolveUnitCost(flour, litre.ID)

	assert.Equal(t, DirectionFallback, res.Direction)
	assert.False(t, res.Converted())
	assert.True(t, res.Cost.Equal(d("10")))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, apperror.CodeConversionPathNotFound, res.Warnings[0].Code)
}

func TestResolveUnitCost_CycleFallsBack(t *testing.T) {
	a := *unit.NewUnit("A", "أ", "A")
	b := *unit.Derive("B", "ب", "B", a.ID, d("2"))
	a.BaseUnitID = id.Ptr(b.ID)
	a.ConversionFactor = d("2")
	c := *unit.NewUnit("C", "ج", "C")
	r := NewResolver(NewGraph([]unit.Unit{a, b, c}))
	it := *item.NewItem("IT", "صنف", "Item", a.ID, d("9"))

	res := r.ResolveUnitCost(it, c.ID)

	assert.Equal(t, DirectionFallback, res.Direction)
	assert.True(t, res.Cost.Equal(d("9")))
	assert.True(t, HasWarning(res.Warnings, apperror.CodeConversionPathNotFound))
	assert.True(t, HasWarning(res.Warnings, apperror.CodeCyclicUnitGraph))
}

func TestResolveUnitCost_UnknownTargetUnit(t *testing.T) {
	gram, kg, _ := massUnits()
	r := NewResolver(NewGraph([]unit.Unit{gram, kg}))
	flour := *item.NewItem("FLOUR", "دقيق", "Flour", kg.ID, d("10"))

	res := r.ResolveUnitCost(flour, id.New())

	assert.Equal(t, DirectionFallback, res.Direction)
	assert.True(t, HasWarning(res.Warnings, apperror.CodeUnitNotFound))
	assert.True(t, HasWarning(res.Warnings, apperror.CodeConversionPathNotFound))
}

func TestResolveUnitCost_NonPositiveFactorWarns(t *testing.T) {
	piece := *unit.NewUnit("PCS", "حبة", "Piece")
	box := *unit.Derive("BOX", "علبة", "Box", piece.ID, decimal.Zero)
	r := NewResolver(NewGraph([]unit.Unit{piece, box}))
	it := *item.NewItem("PEN", "قلم", "Pen", box.ID, d("10"))

	res := r.ResolveUnitCost(it, piece.ID)

	assert.Equal(t, DirectionDownward, res.Direction)
	assert.True(t, res.Cost.Equal(d("10")))
	assert.True(t, HasWarning(res.Warnings, apperror.CodeNonPositiveFactor))
}

func TestResolveUnitCost_UpwardDividesToo(t *testing.T) {
	// The upward reading divides by the factor just like the downward one.
	gram, kg, _ := massUnits()
	r := NewResolver(NewGraph([]unit.Unit{gram, kg}))
	perGram := *item.NewItem("SALT", "ملح", "Salt", gram.ID, d("0.02"))

	res := r.ResolveUnitCost(perGram, kg.ID)

	assert.Equal(t, DirectionUpward, res.Direction)
	assert.True(t, res.Cost.Equal(d("0.00002")), "cost %s", res.Cost)
}
