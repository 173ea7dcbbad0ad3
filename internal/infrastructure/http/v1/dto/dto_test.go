package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/domain/variant"
)

func TestBatchRequest_ToBatch(t *testing.T) {
	req := BatchRequest{
		DefaultTemplate: "PROFILE",
		Rows: []BatchRowRequest{
			{SelectionRequest: SelectionRequest{Sticker: "WS", PowderCode: "RAL9016", Length: "6"}},
			{
				Template:         "T1",
				SelectionRequest: SelectionRequest{Values: []string{"Red"}},
				OverridesRequest: OverridesRequest{ItemCode: " T1-CUSTOM ", VariantSKU: "SKU-9"},
			},
		},
	}

	b := req.ToBatch()
	require.Len(t, b.Rows, 2)

	assert.Equal(t, "PROFILE", b.TemplateFor(b.Rows[0]))
	assert.Equal(t, variant.ByRole(map[item.Role]string{
		item.RoleSticker:    "WS",
		item.RolePowderCode: "RAL9016",
		item.RoleLength:     "6",
	}), b.Rows[0].Selections())

	assert.Equal(t, "T1", b.TemplateFor(b.Rows[1]))
	assert.Nil(t, b.Rows[1].Roles)
	assert.Equal(t, variant.Positional("Red"), b.Rows[1].Selections())
	assert.Equal(t, "T1-CUSTOM", b.Rows[1].Code)
	assert.Equal(t, "SKU-9", b.Rows[1].SKU)
}

func TestSelectionRequest_KeepsRolesAndValues(t *testing.T) {
	sel := SelectionRequest{Values: []string{"", "", "Red"}, Length: "3"}.ToSelections()
	assert.Equal(t, []string{"", "", "Red"}, sel.Values)
	assert.Equal(t, map[item.Role]string{item.RoleLength: "3"}, sel.Roles)
}

func TestFromBatchResult_EmptySlices(t *testing.T) {
	resp := FromBatchResult(&variant.BatchResult{})
	assert.NotNil(t, resp.Created)
	assert.NotNil(t, resp.Outcomes)
}

func TestConfigureTemplateRequest_Roles(t *testing.T) {
	attrs, err := ConfigureTemplateRequest{Attributes: []TemplateAttributeRequest{
		{Attribute: "Sticker", Role: "sticker"},
		{Attribute: "Colour"},
	}}.ToTemplateAttributes()
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, 1, attrs[0].Idx)
	assert.Equal(t, item.RoleSticker, attrs[0].Role)
	assert.Equal(t, item.RoleNone, attrs[1].Role)

	_, err = ConfigureTemplateRequest{Attributes: []TemplateAttributeRequest{
		{Attribute: "Sticker", Role: "label"},
	}}.ToTemplateAttributes()
	assert.True(t, apperror.IsValidation(err))
}

func TestPeriodQuery_Parse(t *testing.T) {
	from, to, err := PeriodQuery{FromDate: "2024-03-01"}.Parse()
	require.NoError(t, err)
	require.NotNil(t, from)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Nil(t, to)

	_, _, err = PeriodQuery{ToDate: "03/01/2024"}.Parse()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "toDate", appErr.Details["field"])
}

func TestFormatQuery_IsXLSX(t *testing.T) {
	assert.True(t, FormatQuery{Format: "XLSX"}.IsXLSX())
	assert.False(t, FormatQuery{Format: "json"}.IsXLSX())
	assert.False(t, FormatQuery{}.IsXLSX())
}
