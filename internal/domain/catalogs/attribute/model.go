// Package attribute provides the Item Attribute catalog: named attributes
// (Color, Length, Sticker) and their ordered value sets.
package attribute

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
	"varibulk/internal/core/entity"
	"varibulk/internal/core/id"
)

// Attribute is a variant dimension. Discrete attributes carry an ordered value set;
// numeric attributes accept free numeric values within an optional range.
type Attribute struct {
	entity.Catalog

	// NumericValues marks attributes such as length whose values are numbers, not a list
	NumericValues bool `db:"numeric_values" json:"numericValues"`

	FromRange decimal.Decimal `db:"from_range" json:"fromRange"`
	ToRange   decimal.Decimal `db:"to_range" json:"toRange"`
	Increment decimal.Decimal `db:"increment" json:"increment"`

	// Values ordered by Idx. Loaded separately from the attribute row.
	Values []Value `db:"-" json:"values"`
}

// Value is one allowed value of a discrete attribute.
type Value struct {
	ID        id.ID  `db:"id" json:"id"`
	Attribute string `db:"attribute" json:"attribute"`
	Idx       int    `db:"idx" json:"idx"`
	Value     string `db:"attribute_value" json:"value"`
	Abbr      string `db:"abbr" json:"abbr"`
}

// Label returns the abbreviation, or the value itself when no abbreviation is set.
func (v Value) Label() string {
	if v.Abbr != "" {
		return v.Abbr
	}
	return v.Value
}

// NewAttribute creates a discrete attribute with the given values in order.
func NewAttribute(name string, values ...Value) *Attribute {
	a := &Attribute{Catalog: entity.NewCatalog(name)}
	for _, v := range values {
		a.AddValue(v.Value, v.Abbr)
	}
	return a
}

// NewNumericAttribute creates an attribute that accepts numeric values.
func NewNumericAttribute(name string, from, to, increment decimal.Decimal) *Attribute {
	return &Attribute{
		Catalog:       entity.NewCatalog(name),
		NumericValues: true,
		FromRange:     from,
		ToRange:       to,
		Increment:     increment,
	}
}

// AddValue appends a value at the end of the value set.
func (a *Attribute) AddValue(value, abbr string) {
	a.Values = append(a.Values, Value{
		ID:        id.New(),
		Attribute: a.Name,
		Idx:       len(a.Values) + 1,
		Value:     strings.TrimSpace(value),
		Abbr:      strings.TrimSpace(abbr),
	})
}

// Validate implements entity.Validatable interface.
func (a *Attribute) Validate(ctx context.Context) error {
	if err := a.Catalog.Validate(ctx); err != nil {
		return err
	}

	if a.NumericValues {
		if a.Increment.IsNegative() {
			return apperror.NewValidation("increment cannot be negative").
				WithDetail("field", "increment")
		}
		if !a.ToRange.IsZero() && a.ToRange.LessThan(a.FromRange) {
			return apperror.NewValidation("to range must not be below from range").
				WithDetail("field", "toRange")
		}
		if len(a.Values) > 0 {
			return apperror.NewValidation("numeric attributes do not take a value list").
				WithDetail("attribute", a.Name)
		}
		return nil
	}

	seenValue := make(map[string]struct{}, len(a.Values))
	seenAbbr := make(map[string]struct{}, len(a.Values))
	for _, v := range a.Values {
		if v.Value == "" {
			return apperror.NewValidation("attribute value is required").
				WithDetail("attribute", a.Name).
				WithDetail("idx", v.Idx)
		}
		key := strings.ToLower(v.Value)
		if _, dup := seenValue[key]; dup {
			return apperror.NewDuplicate("attribute value", "value", v.Value).
				WithDetail("attribute", a.Name)
		}
		seenValue[key] = struct{}{}

		if v.Abbr == "" {
			continue
		}
		abbr := strings.ToLower(v.Abbr)
		if _, dup := seenAbbr[abbr]; dup {
			return apperror.NewDuplicate("attribute value", "abbr", v.Abbr).
				WithDetail("attribute", a.Name)
		}
		seenAbbr[abbr] = struct{}{}
	}

	return nil
}
