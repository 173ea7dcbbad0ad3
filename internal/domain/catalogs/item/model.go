// Package item provides the Item catalog: templates that define variant
// attributes and the concrete variants materialised from them.
package item

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
	"varibulk/internal/core/entity"
)

// Item is a catalog entry. A template has HasVariants set and an ordered list
// of template attributes; a variant points to its template through VariantOf
// and carries one bound value per attribute.
type Item struct {
	entity.Catalog

	// ItemName is the display label
	ItemName    string `db:"item_name" json:"itemName"`
	Description string `db:"description" json:"description"`
	ItemGroup   string `db:"item_group" json:"itemGroup"`
	StockUOM    string `db:"stock_uom" json:"stockUom"`

	HasVariants bool    `db:"has_variants" json:"hasVariants"`
	VariantOf   *string `db:"variant_of" json:"variantOf,omitempty"`

	// VariantKey is the canonical form of the attribute binding, used for lookup
	VariantKey *string `db:"variant_key" json:"-"`
	VariantSKU *string `db:"variant_sku" json:"variantSku,omitempty"`

	// Per-meter weights drive the pieces-per-kg derivation of variants
	WeightPerMeterWithSticker decimal.Decimal `db:"weight_per_meter_with_sticker" json:"weightPerMeterWithSticker"`
	WeightPerMeterNoSticker   decimal.Decimal `db:"weight_per_meter_no_sticker" json:"weightPerMeterNoSticker"`

	PiecesPerKg decimal.NullDecimal `db:"pieces_per_kg" json:"piecesPerKg"`
	WeightUOM   string              `db:"weight_uom" json:"weightUom"`

	TemplateAttributes []TemplateAttribute `db:"-" json:"attributes,omitempty"`
	VariantAttributes  []VariantAttribute  `db:"-" json:"variantAttributes,omitempty"`
}

// TemplateAttribute binds an attribute to a template at a position, with an
// optional explicit role.
type TemplateAttribute struct {
	Idx       int    `db:"idx" json:"idx"`
	Attribute string `db:"attribute" json:"attribute"`
	Role      Role   `db:"role" json:"role,omitempty"`
}

// VariantAttribute is one bound value on a variant.
type VariantAttribute struct {
	Idx       int    `db:"idx" json:"idx"`
	Attribute string `db:"attribute" json:"attribute"`
	Value     string `db:"attribute_value" json:"value"`
}

// NewItem creates a plain item.
func NewItem(name, itemName string) *Item {
	return &Item{
		Catalog:  entity.NewCatalog(name),
		ItemName: strings.TrimSpace(itemName),
		StockUOM: "Nos",
	}
}

// NewTemplate creates a variant-capable item with attributes in the given order.
func NewTemplate(name, itemName string, attributes ...string) *Item {
	it := NewItem(name, itemName)
	it.HasVariants = true
	for i, a := range attributes {
		it.TemplateAttributes = append(it.TemplateAttributes, TemplateAttribute{Idx: i + 1, Attribute: a})
	}
	return it
}

// Label returns ItemName, or Name when the display label is empty.
func (it *Item) Label() string {
	if it.ItemName != "" {
		return it.ItemName
	}
	return it.Name
}

// IsVariant reports whether the item was materialised from a template.
func (it *Item) IsVariant() bool {
	return it.VariantOf != nil && *it.VariantOf != ""
}

// AttributeNames returns the template attribute names in declared order.
func (it *Item) AttributeNames() []string {
	names := make([]string, 0, len(it.TemplateAttributes))
	for _, a := range it.TemplateAttributes {
		names = append(names, a.Attribute)
	}
	return names
}

// Validate implements entity.Validatable interface.
func (it *Item) Validate(ctx context.Context) error {
	if err := it.Catalog.Validate(ctx); err != nil {
		return err
	}

	if it.HasVariants && it.IsVariant() {
		return apperror.NewValidation("a variant cannot itself have variants").
			WithDetail("item", it.Name)
	}

	if it.WeightPerMeterWithSticker.IsNegative() {
		return apperror.NewValidation("weight per meter cannot be negative").
			WithDetail("field", "weightPerMeterWithSticker")
	}
	if it.WeightPerMeterNoSticker.IsNegative() {
		return apperror.NewValidation("weight per meter cannot be negative").
			WithDetail("field", "weightPerMeterNoSticker")
	}

	seen := make(map[string]struct{}, len(it.TemplateAttributes))
	for _, a := range it.TemplateAttributes {
		if strings.TrimSpace(a.Attribute) == "" {
			return apperror.NewValidation("attribute is required").
				WithDetail("item", it.Name).
				WithDetail("idx", a.Idx)
		}
		if _, dup := seen[a.Attribute]; dup {
			return apperror.NewDuplicate("template attribute", "attribute", a.Attribute).
				WithDetail("item", it.Name)
		}
		seen[a.Attribute] = struct{}{}
	}

	return nil
}
