package costing

import (
	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/domain/catalogs/item"
)

// Direction records which interpretation of the conversion factor produced a cost.
type Direction string

const (
	// DirectionIdentity: target is the item's default unit (or absent).
	DirectionIdentity Direction = "identity"
	// DirectionDownward: walked from the default unit up to the target.
	DirectionDownward Direction = "downward"
	// DirectionUpward: walked from the target up to the default unit.
	DirectionUpward Direction = "upward"
	// DirectionFallback: no path either way, price returned unchanged.
	DirectionFallback Direction = "fallback"
	// DirectionManual: the caller typed the cost; no conversion was attempted.
	DirectionManual Direction = "manual"
)

// Resolution is the cost of one target unit of an item plus how it was found.
type Resolution struct {
	Cost      decimal.Decimal `json:"cost"`
	Price     decimal.Decimal `json:"price"`
	Direction Direction       `json:"direction"`
	Factor    decimal.Decimal `json:"factor"`
	Path      []id.ID         `json:"path,omitempty"`
	Warnings  []Warning       `json:"warnings,omitempty"`
}

// Converted reports whether a conversion path was found (identity included).
func (r Resolution) Converted() bool {
	return r.Direction != DirectionFallback
}

// Resolver converts item prices between units using a Graph.
type Resolver struct {
	graph *Graph
}

// NewResolver creates a resolver over graph.
func NewResolver(graph *Graph) *Resolver {
	return &Resolver{graph: graph}
}

// ResolveUnitCost returns the cost of one targetUnitID of it.
//
// The two readings of conversionFactor are tried in order: first walking up
// from the default unit to the target, then from the target to the default
// unit. Either way the price is divided by the accumulated factor. With no
// path the price is returned unchanged and a CodeConversionPathNotFound
// warning is attached. Nothing is rounded here.
func (r *Resolver) ResolveUnitCost(it item.Item, targetUnitID id.ID) Resolution {
	price := it.Price
	defaultUnit := it.DefaultUnit()

	if id.IsNil(targetUnitID) || targetUnitID == defaultUnit {
		return Resolution{Cost: price, Price: price, Direction: DirectionIdentity, Factor: one}
	}

	down, downErr := r.graph.TraverseUp(defaultUnit, targetUnitID)
	if downErr == nil {
		return divided(price, down, DirectionDownward)
	}

	up, upErr := r.graph.TraverseUp(targetUnitID, defaultUnit)
	if upErr == nil {
		return divided(price, up, DirectionUpward)
	}

	warnings := []Warning{{
		Code:    apperror.CodeConversionPathNotFound,
		Message: "no conversion path between item default unit and requested unit, using catalog price",
		Details: map[string]any{
			"itemId":        it.ID.String(),
			"defaultUnitId": defaultUnit.String(),
			"unitId":        targetUnitID.String(),
		},
	}}
	for _, err := range []error{downErr, upErr} {
		if apperror.HasCode(err, apperror.CodeConversionPathNotFound) {
			continue
		}
		w := warningFrom(err)
		if !containsWarning(warnings, w) {
			warnings = append(warnings, w)
		}
	}

	return Resolution{
		Cost:      price,
		Price:     price,
		Direction: DirectionFallback,
		Factor:    one,
		Warnings:  warnings,
	}
}

func divided(price decimal.Decimal, p Path, dir Direction) Resolution {
	return Resolution{
		Cost:      price.Div(p.Factor),
		Price:     price,
		Direction: dir,
		Factor:    p.Factor,
		Path:      p.Units,
		Warnings:  p.Warnings,
	}
}

func containsWarning(ws []Warning, w Warning) bool {
	for _, existing := range ws {
		if existing.Code == w.Code && existing.Message == w.Message {
			return true
		}
	}
	return false
}
