package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/domain/variant"
)

// --- Selections ---

// SelectionRequest carries positional values, role fields, or both. A role
// field takes its attribute and values fill the attributes left over by position.
type SelectionRequest struct {
	Values     []string `json:"values"`
	Sticker    string   `json:"sticker"`
	PowderCode string   `json:"powderCode"`
	Length     string   `json:"length"`
}

func (r SelectionRequest) hasRoles() bool {
	return strings.TrimSpace(r.Sticker) != "" ||
		strings.TrimSpace(r.PowderCode) != "" ||
		strings.TrimSpace(r.Length) != ""
}

func (r SelectionRequest) roles() map[item.Role]string {
	if !r.hasRoles() {
		return nil
	}
	return map[item.Role]string{
		item.RoleSticker:    r.Sticker,
		item.RolePowderCode: r.PowderCode,
		item.RoleLength:     r.Length,
	}
}

// ToSelections converts the request to domain selections.
func (r SelectionRequest) ToSelections() variant.Selections {
	sel := variant.Positional(r.Values...)
	if roles := r.roles(); roles != nil {
		sel.Roles = variant.ByRole(roles).Roles
	}
	return sel
}

// OverridesRequest renames or relabels the variant.
type OverridesRequest struct {
	ItemCode    string `json:"itemCode"`
	ItemName    string `json:"itemName"`
	VariantSKU  string `json:"variantSku"`
	Description string `json:"description"`
}

// ToOverrides converts the request to domain overrides.
func (r OverridesRequest) ToOverrides() variant.Overrides {
	return variant.Overrides{
		Code:        strings.TrimSpace(r.ItemCode),
		ItemName:    strings.TrimSpace(r.ItemName),
		SKU:         strings.TrimSpace(r.VariantSKU),
		Description: strings.TrimSpace(r.Description),
	}
}

// --- Batch ---

// BatchRowRequest is one requested variant.
type BatchRowRequest struct {
	Template string `json:"template"`
	SelectionRequest
	OverridesRequest
}

// BatchRequest is a bulk creation request.
type BatchRequest struct {
	DefaultTemplate string            `json:"defaultTemplate"`
	Rows            []BatchRowRequest `json:"rows"`
}

// ToBatch converts the request to a domain batch.
func (r BatchRequest) ToBatch() variant.Batch {
	b := variant.Batch{
		DefaultTemplate: r.DefaultTemplate,
		Rows:            make([]variant.Row, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		b.Rows = append(b.Rows, variant.Row{
			Template:  row.Template,
			Values:    row.Values,
			Roles:     row.roles(),
			Overrides: row.ToOverrides(),
		})
	}
	return b
}

// BatchResponse reports what a batch did.
type BatchResponse struct {
	Log      string               `json:"log"`
	Created  []string             `json:"created"`
	Outcomes []variant.RowOutcome `json:"outcomes"`
	// SheetRows maps outcome rows to workbook rows on imports
	SheetRows []int `json:"sheetRows,omitempty"`
}

// FromBatchResult converts the domain result to a response.
func FromBatchResult(r *variant.BatchResult) *BatchResponse {
	resp := &BatchResponse{
		Log:      r.Log,
		Created:  r.Created,
		Outcomes: r.Outcomes,
	}
	if resp.Created == nil {
		resp.Created = []string{}
	}
	if resp.Outcomes == nil {
		resp.Outcomes = []variant.RowOutcome{}
	}
	return resp
}

// --- Single resolution ---

// ResolveRequest materialises one variant.
type ResolveRequest struct {
	Template string `json:"template" binding:"required"`
	SelectionRequest
	OverridesRequest
}

// VariantResponse describes a stored variant.
type VariantResponse struct {
	ItemCode    string              `json:"itemCode"`
	ItemName    string              `json:"itemName"`
	Description string              `json:"description"`
	Template    string              `json:"template"`
	StockUOM    string              `json:"stockUom"`
	VariantSKU  string              `json:"variantSku,omitempty"`
	PiecesPerKg decimal.NullDecimal `json:"piecesPerKg"`
	WeightUOM   string              `json:"weightUom,omitempty"`
	Attributes  map[string]string   `json:"attributes"`
	Created     bool                `json:"created"`
}

// FromMaterializeResult converts the domain result to a response.
func FromMaterializeResult(r *variant.MaterializeResult) *VariantResponse {
	it := r.Item
	resp := &VariantResponse{
		ItemCode:    it.Name,
		ItemName:    it.ItemName,
		Description: it.Description,
		StockUOM:    it.StockUOM,
		PiecesPerKg: it.PiecesPerKg,
		WeightUOM:   it.WeightUOM,
		Attributes:  make(map[string]string, len(it.VariantAttributes)),
		Created:     r.Created,
	}
	if it.VariantOf != nil {
		resp.Template = *it.VariantOf
	}
	if it.VariantSKU != nil {
		resp.VariantSKU = *it.VariantSKU
	}
	for _, a := range it.VariantAttributes {
		resp.Attributes[a.Attribute] = a.Value
	}
	return resp
}

// --- Templates ---

// TemplateAttributeRequest is one attribute of a template in order.
type TemplateAttributeRequest struct {
	Attribute string `json:"attribute" binding:"required"`
	Role      string `json:"role"`
}

// ConfigureTemplateRequest replaces the attributes of a template.
type ConfigureTemplateRequest struct {
	Attributes []TemplateAttributeRequest `json:"attributes" binding:"required,min=1,dive"`
}

// ToTemplateAttributes converts the request, validating role names.
func (r ConfigureTemplateRequest) ToTemplateAttributes() ([]item.TemplateAttribute, error) {
	attrs := make([]item.TemplateAttribute, 0, len(r.Attributes))
	for i, a := range r.Attributes {
		role, err := item.ParseRole(a.Role)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, item.TemplateAttribute{
			Idx:       i + 1,
			Attribute: strings.TrimSpace(a.Attribute),
			Role:      role,
		})
	}
	return attrs, nil
}

// TemplateResponse is a configured template.
type TemplateResponse struct {
	Name        string                   `json:"name"`
	ItemName    string                   `json:"itemName"`
	HasVariants bool                     `json:"hasVariants"`
	Attributes  []item.TemplateAttribute `json:"attributes"`
	Version     int                      `json:"version"`
}

// FromTemplate converts a template item to a response.
func FromTemplate(it *item.Item) *TemplateResponse {
	return &TemplateResponse{
		Name:        it.Name,
		ItemName:    it.ItemName,
		HasVariants: it.HasVariants,
		Attributes:  it.TemplateAttributes,
		Version:     it.Version,
	}
}

// --- Attributes ---

// AttributeValueRequest is one allowed value.
type AttributeValueRequest struct {
	Value string `json:"value" binding:"required"`
	Abbr  string `json:"abbr"`
}

// CreateAttributeRequest creates an attribute with its value set.
type CreateAttributeRequest struct {
	Name          string                  `json:"name" binding:"required"`
	NumericValues bool                    `json:"numericValues"`
	FromRange     decimal.Decimal         `json:"fromRange"`
	ToRange       decimal.Decimal         `json:"toRange"`
	Increment     decimal.Decimal         `json:"increment"`
	Values        []AttributeValueRequest `json:"values"`
}

// ToAttribute converts the request to a new attribute.
func (r CreateAttributeRequest) ToAttribute() *attribute.Attribute {
	if r.NumericValues {
		a := attribute.NewNumericAttribute(r.Name, r.FromRange, r.ToRange, r.Increment)
		// a value list on a numeric attribute fails validation
		for _, v := range r.Values {
			a.AddValue(v.Value, v.Abbr)
		}
		return a
	}

	a := attribute.NewAttribute(r.Name)
	for _, v := range r.Values {
		a.AddValue(v.Value, v.Abbr)
	}
	return a
}

// AttributeValuesRequest is the autocomplete query.
type AttributeValuesRequest struct {
	Text    string `form:"txt"`
	Start   int    `form:"start"`
	PageLen int    `form:"pageLen"`
}
