package costing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/catalogs/unit"
	"procura/internal/domain/pricing"
	"procura/pkg/logger"
)

type serviceFixture struct {
	svc    *Service
	logs   *observer.ObservedLogs
	carton unit.Unit
	piece  unit.Unit
	litre  unit.Unit
	juice  item.Item
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	carton := *unit.NewUnit("CTN", "كرتون", "Carton")
	piece := *unit.Derive("PCS", "حبة", "Piece", carton.ID, d("12"))
	litre := *unit.NewUnit("L", "لتر", "Litre")
	juice := *item.NewItem("JUICE", "عصير", "Juice", carton.ID, d("48"))

	store := NewStore()
	_, err := store.Reload(context.Background(), &StaticSource{
		Units: []unit.Unit{carton, piece, litre},
		Items: []item.Item{juice},
	})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	return serviceFixture{
		svc:    NewService(store, log),
		logs:   logs,
		carton: carton,
		piece:  piece,
		litre:  litre,
		juice:  juice,
	}
}

func TestService_NotLoaded(t *testing.T) {
	svc := NewService(NewStore(), logger.Nop())

	_, _, err := svc.ResolveItemCost(context.Background(), id.New(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnavailable))
	assert.Equal(t, 503, apperror.GetHTTPStatus(err))
}

func TestService_ResolveItemCost(t *testing.T) {
	f := newServiceFixture(t)

	it, res, err := f.svc.ResolveItemCost(context.Background(), f.juice.ID, f.piece.ID)
	require.NoError(t, err)
	assert.Equal(t, "JUICE", it.Code)
	assert.True(t, res.Cost.Equal(d("4")))
	assert.Equal(t, 0, f.logs.Len())
}

func TestService_ResolveItemCost_UnknownItem(t *testing.T) {
	f := newServiceFixture(t)

	_, _, err := f.svc.ResolveItemCost(context.Background(), id.New(), f.piece.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_LogsWarnings(t *testing.T) {
	f := newServiceFixture(t)

	_, res, err := f.svc.ResolveItemCost(context.Background(), f.juice.ID, f.litre.ID)
	require.NoError(t, err)
	assert.Equal(t, DirectionFallback, res.Direction)

	entries := f.logs.FilterMessage("unit cost resolution warning").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, apperror.CodeConversionPathNotFound, entries[0].ContextMap()["code"])
	assert.Equal(t, "costing", entries[0].ContextMap()["component"])
}

func TestService_PriceLines(t *testing.T) {
	f := newServiceFixture(t)
	override := d("3.5")

	lines, err := f.svc.PriceLines(context.Background(), []LineInput{
		{ItemID: f.juice.ID, UnitID: f.piece.ID, Quantity: d("6"), Tax: pricing.RateBased(d("15"))},
		{ItemID: f.juice.ID, UnitID: f.carton.ID, Quantity: d("2"), Discount: d("6"), Tax: pricing.FlatAmount(d("1"))},
		{ItemID: f.juice.ID, UnitID: f.piece.ID, Quantity: d("2"), UnitCostOverride: &override},
	})
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.True(t, lines[0].Result.UnitCost.Equal(d("4")))
	assert.True(t, lines[0].Result.LineTotal.Equal(d("27.6")), "total %s", lines[0].Result.LineTotal)

	assert.True(t, lines[1].Result.AmountAfterDiscount.Equal(d("90")))
	assert.True(t, lines[1].Result.LineTotal.Equal(d("91")))

	assert.True(t, lines[2].Result.UnitCost.Equal(d("3.5")))
	assert.True(t, lines[2].Result.LineTotal.Equal(d("7")))
	assert.True(t, lines[2].Resolution.Cost.Equal(d("3.5")))
	assert.Equal(t, DirectionManual, lines[2].Resolution.Direction)

	totals := pricing.AggregateDocument([]pricing.LineResult{lines[0].Result, lines[1].Result, lines[2].Result})
	assert.True(t, totals.GrandTotal.Equal(d("125.6")), "grand %s", totals.GrandTotal)
}

func TestService_PriceLines_OverrideSkipsConversion(t *testing.T) {
	f := newServiceFixture(t)
	override := d("9")

	lines, err := f.svc.PriceLines(context.Background(), []LineInput{
		{ItemID: f.juice.ID, UnitID: f.litre.ID, Quantity: d("2"), UnitCostOverride: &override},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	assert.Equal(t, DirectionManual, lines[0].Resolution.Direction)
	assert.Empty(t, lines[0].Resolution.Warnings)
	assert.True(t, lines[0].Result.LineTotal.Equal(d("18")))
	assert.Equal(t, 0, f.logs.Len())
}

func TestService_PriceLines_UnknownItemReportsLine(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.PriceLines(context.Background(), []LineInput{
		{ItemID: f.juice.ID, UnitID: f.piece.ID, Quantity: decimal.NewFromInt(1)},
		{ItemID: id.New(), UnitID: f.piece.ID, Quantity: decimal.NewFromInt(1)},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 2, appErr.Details["lineNo"])
}

func TestService_ResolveInlineItem(t *testing.T) {
	f := newServiceFixture(t)
	adHoc := *item.NewItem("ADHOC", "مؤقت", "Ad hoc", f.carton.ID, d("120"))

	res, err := f.svc.Resolve(context.Background(), adHoc, f.piece.ID)
	require.NoError(t, err)
	assert.True(t, res.Cost.Equal(d("10")))
}
