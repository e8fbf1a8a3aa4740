package dto

import (
	"time"

	"github.com/shopspring/decimal"

	appctx "procura/internal/core/context"
	"procura/internal/domain/catalogs/item"
	"procura/internal/domain/catalogs/unit"
	"procura/internal/domain/costing"
)

// UnitResponse is the response body for a unit.
type UnitResponse struct {
	ID               string          `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	NameAr           string          `json:"nameAr"`
	NameEn           string          `json:"nameEn"`
	Symbol           string          `json:"symbol,omitempty"`
	BaseUnitID       *string         `json:"baseUnitId,omitempty"`
	ConversionFactor decimal.Decimal `json:"conversionFactor"`
	IsBase           bool            `json:"isBase"`
	DeletionMark     bool            `json:"deletionMark"`
}

// FromUnit creates response DTO from domain entity.
func FromUnit(u unit.Unit, l appctx.Locale) UnitResponse {
	return UnitResponse{
		ID:               u.ID.String(),
		Code:             u.Code,
		Name:             u.Name(l),
		NameAr:           u.NameAr,
		NameEn:           u.NameEn,
		Symbol:           u.Symbol,
		BaseUnitID:       optionalID(u.BaseUnitID),
		ConversionFactor: u.ConversionFactor,
		IsBase:           u.IsBase(),
		DeletionMark:     u.DeletionMark,
	}
}

// ItemResponse is the response body for an item.
type ItemResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	NameAr        string          `json:"nameAr"`
	NameEn        string          `json:"nameEn"`
	DefaultUnitID *string         `json:"defaultUnitId,omitempty"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    *string         `json:"categoryId,omitempty"`
}

// FromItem creates response DTO from domain entity.
func FromItem(it item.Item, l appctx.Locale) ItemResponse {
	return ItemResponse{
		ID:            it.ID.String(),
		Code:          it.Code,
		Name:          it.Name(l),
		NameAr:        it.NameAr,
		NameEn:        it.NameEn,
		DefaultUnitID: optionalID(it.DefaultUnitID),
		Price:         it.Price,
		CategoryID:    optionalID(it.CategoryID),
	}
}

// UnitPathQuery selects the target of a traversal.
type UnitPathQuery struct {
	To string `form:"to" binding:"required,uuid"`
}

// UnitPathResponse reports a TraverseUp walk. Error is set when no path exists.
type UnitPathResponse struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Found    bool              `json:"found"`
	Factor   decimal.Decimal   `json:"factor"`
	Units    []string          `json:"units"`
	Warnings []costing.Warning `json:"warnings"`
	Error    *ErrorResponse    `json:"error,omitempty"`
}

// FromPath builds a UnitPathResponse from a traversal outcome.
func FromPath(from, to string, p costing.Path, err error) UnitPathResponse {
	resp := UnitPathResponse{
		From:     from,
		To:       to,
		Found:    err == nil,
		Factor:   p.Factor,
		Units:    idStrings(p.Units),
		Warnings: warningsOrEmpty(p.Warnings),
	}
	if err != nil {
		resp.Error = ErrorFrom(err)
		resp.Factor = decimal.Zero
	}
	return resp
}

// CatalogInfo summarises the active snapshot.
type CatalogInfo struct {
	Generation  uint64            `json:"generation"`
	LoadedAt    string            `json:"loadedAt"`
	Units       int               `json:"units"`
	Items       int               `json:"items"`
	Diagnostics []costing.Warning `json:"diagnostics"`
}

// FromSnapshot creates CatalogInfo.
func FromSnapshot(s *costing.Snapshot) CatalogInfo {
	return CatalogInfo{
		Generation:  s.Generation,
		LoadedAt:    s.LoadedAt.Format(time.RFC3339),
		Units:       s.Graph().Len(),
		Items:       s.ItemCount(),
		Diagnostics: warningsOrEmpty(s.Diagnostics),
	}
}
