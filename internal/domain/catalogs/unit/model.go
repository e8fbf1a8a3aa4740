// Package unit provides the Unit catalog (وحدات القياس / units of measure).
// Units may be expressed in terms of a base unit through a conversion factor.
package unit

import (
	"context"

	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	appctx "procura/internal/core/context"
	"procura/internal/core/id"
)

// Unit represents a measurement unit.
type Unit struct {
	ID     id.ID  `db:"id" json:"id"`
	Code   string `db:"code" json:"code"`
	NameAr string `db:"name_ar" json:"nameAr"`
	NameEn string `db:"name_en" json:"nameEn"`

	// Symbol is the short symbol (e.g., "kg", "ctn", "pcs")
	Symbol string `db:"symbol" json:"symbol"`

	// BaseUnitID is the unit this one is expressed in. Nil for a base unit.
	BaseUnitID *id.ID `db:"base_unit_id" json:"baseUnitId,omitempty"`

	// ConversionFactor relates this unit to BaseUnitID.
	// Deployed data uses it in both directions ("1 Kg = 1000 Gram" on Kg,
	// "12 Piece = 1 Carton" on Piece), so no single meaning is enforced here.
	ConversionFactor decimal.Decimal `db:"conversion_factor" json:"conversionFactor"`

	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`
}

// NewUnit creates a new base Unit.
func NewUnit(code, nameAr, nameEn string) *Unit {
	return &Unit{
		ID:               id.New(),
		Code:             code,
		NameAr:           nameAr,
		NameEn:           nameEn,
		ConversionFactor: decimal.NewFromInt(1),
	}
}

// Derive creates a unit expressed in terms of base with the given factor.
func Derive(code, nameAr, nameEn string, base id.ID, factor decimal.Decimal) *Unit {
	u := NewUnit(code, nameAr, nameEn)
	u.BaseUnitID = id.Ptr(base)
	u.ConversionFactor = factor
	return u
}

// IsBase reports whether the unit has no base unit.
func (u *Unit) IsBase() bool {
	return u.BaseUnitID == nil || id.IsNil(*u.BaseUnitID)
}

// BaseID returns the base unit ID or the nil ID.
func (u *Unit) BaseID() id.ID {
	return id.Deref(u.BaseUnitID)
}

// Name returns the display name for locale, falling back to the other language.
func (u *Unit) Name(l appctx.Locale) string {
	return pickName(l, u.NameAr, u.NameEn)
}

// Validate implements entity validation for catalog management.
// The conversion engine never calls it: it tolerates whatever is stored.
func (u *Unit) Validate(ctx context.Context) error {
	if u.NameAr == "" && u.NameEn == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "nameAr")
	}

	if !u.ConversionFactor.IsPositive() {
		return apperror.NewValidation("conversion factor must be positive").
			WithDetail("field", "conversionFactor")
	}

	if !u.IsBase() && *u.BaseUnitID == u.ID {
		return apperror.NewValidation("unit cannot be its own base unit").
			WithDetail("field", "baseUnitId")
	}

	return nil
}

func pickName(l appctx.Locale, ar, en string) string {
	if l == appctx.LocaleEnglish {
		if en != "" {
			return en
		}
		return ar
	}
	if ar != "" {
		return ar
	}
	return en
}
