// Package sales_order resolves template selections on Sales Order rows to
// concrete variants before the order is saved.
package sales_order

import (
	"strings"

	"github.com/shopspring/decimal"

	"varibulk/internal/domain/variant"
)

// Item is a Sales Order row as sent by the host system.
type Item struct {
	Name string `json:"name,omitempty"`

	// Template and selected values; Values holds the 1st..3rd attribute value
	TemplateItem   string   `json:"templateItem,omitempty"`
	AttributeValue string   `json:"attributeValue,omitempty"`
	Values         []string `json:"values,omitempty"`

	ItemCode         string          `json:"itemCode,omitempty"`
	ItemName         string          `json:"itemName,omitempty"`
	Description      string          `json:"description,omitempty"`
	UOM              string          `json:"uom,omitempty"`
	StockUOM         string          `json:"stockUom,omitempty"`
	ConversionFactor decimal.Decimal `json:"conversionFactor"`
	TotalWeight      decimal.Decimal `json:"totalWeight"`
}

// Selections returns the row's values in template order. AttributeValue is
// the first value when Values is empty.
func (it Item) Selections() variant.Selections {
	if len(it.Values) > 0 {
		return variant.Positional(it.Values...)
	}
	return variant.Positional(it.AttributeValue)
}

// SelectionLabel joins the selected values for messages.
func (it Item) SelectionLabel() string {
	if len(it.Values) > 0 {
		return strings.Join(it.Values, ", ")
	}
	return it.AttributeValue
}

// ResolvedVariant is what the order form fills into a row.
type ResolvedVariant struct {
	ItemCode         string          `json:"itemCode"`
	ItemName         string          `json:"itemName"`
	Description      string          `json:"description"`
	StockUOM         string          `json:"stockUom"`
	ConversionFactor decimal.Decimal `json:"conversionFactor"`
}
