// Package item provides the Item catalog (الأصناف / purchasable items).
package item

import (
	"context"

	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	appctx "procura/internal/core/context"
	"procura/internal/core/id"
)

// Item represents a purchasable catalog entry.
//
// Price is always denominated in DefaultUnitID. Costs in any other unit are
// derived by the costing engine and never stored.
type Item struct {
	ID     id.ID  `db:"id" json:"id"`
	Code   string `db:"code" json:"code"`
	NameAr string `db:"name_ar" json:"nameAr"`
	NameEn string `db:"name_en" json:"nameEn"`

	// DefaultUnitID is the primary unit the catalog price refers to.
	DefaultUnitID *id.ID `db:"default_unit_id" json:"defaultUnitId,omitempty"`

	// Price per one DefaultUnitID.
	Price decimal.Decimal `db:"price" json:"price"`

	// CategoryID groups items for reporting.
	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`
}

// NewItem creates a new Item priced in defaultUnit.
func NewItem(code, nameAr, nameEn string, defaultUnit id.ID, price decimal.Decimal) *Item {
	return &Item{
		ID:            id.New(),
		Code:          code,
		NameAr:        nameAr,
		NameEn:        nameEn,
		DefaultUnitID: id.Ptr(defaultUnit),
		Price:         price,
	}
}

// DefaultUnit returns the default unit ID or the nil ID.
func (i *Item) DefaultUnit() id.ID {
	return id.Deref(i.DefaultUnitID)
}

// Name returns the display name for locale, falling back to the other language.
func (i *Item) Name(l appctx.Locale) string {
	if l == appctx.LocaleEnglish && i.NameEn != "" {
		return i.NameEn
	}
	if i.NameAr != "" {
		return i.NameAr
	}
	return i.NameEn
}

// Validate implements entity validation for catalog management.
func (i *Item) Validate(ctx context.Context) error {
	if i.NameAr == "" && i.NameEn == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "nameAr")
	}

	if id.IsNil(i.DefaultUnit()) {
		return apperror.NewValidation("default unit is required").
			WithDetail("field", "defaultUnitId")
	}

	if i.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	return nil
}
