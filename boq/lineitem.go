package boq

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Field names a mutable line item attribute.
type Field string

const (
	FieldCode        Field = "code"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldUOM         Field = "uom"
	FieldQuantity    Field = "quantity"
	FieldRate        Field = "rate"
	FieldLabor       Field = "labor"
	FieldMaterial    Field = "material"
	FieldEquipment   Field = "equipment"
	FieldOverhead    Field = "overhead"
)

// MaxAmount is the largest money value, in paise, an item rate, item amount
// or BOQ subtotal may hold. Contingency is subtotal × basis points / 10000, so
// this keeps that product inside int64.
const MaxAmount int64 = math.MaxInt64 / 10000

// CostBreakdown splits an item's cost for reporting. It is informational and
// need not sum to the item amount.
type CostBreakdown struct {
	Labor     int64 `json:"labor"`
	Material  int64 `json:"material"`
	Equipment int64 `json:"equipment"`
	Overhead  int64 `json:"overhead"`
}

// LineItem is one costed row of a BOQ. Rate and Amount are in the smallest
// currency unit. Values are never modified in place; every edit returns a
// new item.
type LineItem struct {
	ID          string        `json:"id"`
	Code        string        `json:"code"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	UOM         string        `json:"uom"`
	Quantity    float64       `json:"quantity"`
	Rate        int64         `json:"rate"`
	Amount      int64         `json:"amount"`
	Breakdown   CostBreakdown `json:"breakdown"`
}

// ItemFields carries the initial values for a new line item. Nil Quantity
// and Rate fall back to 1 and 0.
type ItemFields struct {
	ID          string        `json:"id"`
	Code        string        `json:"code"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	UOM         string        `json:"uom"`
	Quantity    *float64      `json:"quantity"`
	Rate        *int64        `json:"rate"`
	Breakdown   CostBreakdown `json:"breakdown"`
}

// Validate checks the numeric fields of f.
func (f ItemFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Quantity, validation.Min(0.0), validation.By(finite)),
		validation.Field(&f.Rate, validation.Min(int64(0)), validation.Max(MaxAmount)),
		validation.Field(&f.Breakdown),
	)
}

// Validate checks that no breakdown component is negative.
func (c CostBreakdown) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Labor, validation.Min(int64(0)), validation.Max(MaxAmount)),
		validation.Field(&c.Material, validation.Min(int64(0)), validation.Max(MaxAmount)),
		validation.Field(&c.Equipment, validation.Min(int64(0)), validation.Max(MaxAmount)),
		validation.Field(&c.Overhead, validation.Min(int64(0)), validation.Max(MaxAmount)),
	)
}

func finite(value any) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return validation.NewError("validation_not_finite", "must be a finite number")
	}
	return nil
}

// NewLineItem builds an item from f. A missing ID is generated; a missing
// Code is left empty for the owning BOQ to assign.
func NewLineItem(f ItemFields) (LineItem, error) {
	if err := f.Validate(); err != nil {
		return LineItem{}, fmt.Errorf("%w: line item: %v", ErrValidation, err)
	}

	item := LineItem{
		ID:          f.ID,
		Code:        strings.TrimSpace(f.Code),
		Description: strings.TrimSpace(f.Description),
		Category:    strings.TrimSpace(f.Category),
		UOM:         strings.TrimSpace(f.UOM),
		Quantity:    1,
		Breakdown:   f.Breakdown,
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if f.Quantity != nil {
		item.Quantity = *f.Quantity
	}
	if f.Rate != nil {
		item.Rate = *f.Rate
	}
	amount, err := checkedAmount(item.Quantity, item.Rate)
	if err != nil {
		return LineItem{}, err
	}
	item.Amount = amount
	return item, nil
}

// WithField returns a copy of item with field set to value. Quantity and rate
// edits recompute Amount. Value is coerced loosely so JSON numbers and form
// strings are both accepted.
func (item LineItem) WithField(field Field, value any) (LineItem, error) {
	next := item

	switch field {
	case FieldCode, FieldDescription, FieldCategory, FieldUOM:
		s, err := cast.ToStringE(value)
		if err != nil {
			return LineItem{}, fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
		}
		s = strings.TrimSpace(s)
		switch field {
		case FieldCode:
			if s == "" {
				return LineItem{}, fmt.Errorf("%w: code must not be empty", ErrValidation)
			}
			next.Code = s
		case FieldDescription:
			next.Description = s
		case FieldCategory:
			next.Category = s
		case FieldUOM:
			next.UOM = s
		}

	case FieldQuantity:
		q, err := parseNumber(value)
		if err != nil {
			return LineItem{}, fmt.Errorf("%w: quantity: %v", ErrValidation, err)
		}
		if q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
			return LineItem{}, fmt.Errorf("%w: quantity must be a non-negative number, got %v", ErrValidation, q)
		}
		next.Quantity = q
		if next.Amount, err = checkedAmount(next.Quantity, next.Rate); err != nil {
			return LineItem{}, err
		}

	case FieldRate, FieldLabor, FieldMaterial, FieldEquipment, FieldOverhead:
		n, err := minorUnits(field, value)
		if err != nil {
			return LineItem{}, err
		}
		switch field {
		case FieldRate:
			next.Rate = n
			if next.Amount, err = checkedAmount(next.Quantity, next.Rate); err != nil {
				return LineItem{}, err
			}
		case FieldLabor:
			next.Breakdown.Labor = n
		case FieldMaterial:
			next.Breakdown.Material = n
		case FieldEquipment:
			next.Breakdown.Equipment = n
		case FieldOverhead:
			next.Breakdown.Overhead = n
		}

	default:
		return LineItem{}, fmt.Errorf("%w: unknown field %q", ErrValidation, field)
	}

	return next, nil
}

// minorUnits reads a money value in paise. Strings are parsed as base-10
// decimals; the result must be a whole, non-negative number no larger than
// MaxAmount.
func minorUnits(field Field, value any) (int64, error) {
	f, err := parseNumber(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
	}
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, fmt.Errorf("%w: %s must be a finite number", ErrValidation, field)
	case f < 0:
		return 0, fmt.Errorf("%w: %s must not be negative, got %v", ErrValidation, field, f)
	case math.Trunc(f) != f:
		return 0, fmt.Errorf("%w: %s must be a whole number of paise, got %v", ErrValidation, field, f)
	case f > float64(MaxAmount):
		return 0, fmt.Errorf("%w: %s exceeds %d", ErrValidation, field, MaxAmount)
	}
	return int64(f), nil
}

// parseNumber reads JSON numbers and form strings. Strings are base-10
// decimals only, so "010" is ten and "0x10" is an error.
func parseNumber(value any) (float64, error) {
	if s, ok := value.(string); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return cast.ToFloat64E(value)
}

// checkedAmount is amountOf with the product bounded by MaxAmount.
func checkedAmount(quantity float64, rate int64) (int64, error) {
	if product := quantity * float64(rate); product > float64(MaxAmount) {
		return 0, fmt.Errorf("%w: amount %.0f exceeds %d", ErrValidation, product, MaxAmount)
	}
	return amountOf(quantity, rate), nil
}

// amountOf rounds quantity*rate to the nearest minor unit.
func amountOf(quantity float64, rate int64) int64 {
	return int64(math.Round(quantity * float64(rate)))
}
