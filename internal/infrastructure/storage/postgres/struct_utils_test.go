package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/domain/catalogs/item"
)

func TestColumns_Item(t *testing.T) {
	cols := Columns[item.Item]()

	for _, expected := range []string{
		"id", "version", "created_at", "updated_at", "name", "disabled",
		"item_name", "variant_of", "variant_key", "pieces_per_kg", "weight_uom",
	} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.Equal(t, "id", cols[0])
}

func TestToRow_Item(t *testing.T) {
	tpl := "PROFILE"
	it := item.NewItem("PROFILE-WS", "Profile WS")
	it.VariantOf = &tpl
	it.PiecesPerKg = decimal.NewNullDecimal(decimal.RequireFromString("0.3077"))

	row := ToRow(it)

	assert.Equal(t, it.ID, row["id"])
	assert.Equal(t, 1, row["version"])
	assert.Equal(t, "PROFILE-WS", row["name"])
	assert.Equal(t, &tpl, row["variant_of"])
	assert.NotContains(t, row, "TemplateAttributes")
}

func TestToRow_Only(t *testing.T) {
	it := item.NewItem("A", "Alpha")

	row := ToRow(it, "name", "item_name")

	require.Len(t, row, 2)
	assert.Equal(t, "Alpha", row["item_name"])
}

func TestToRow_NotAStruct(t *testing.T) {
	assert.Nil(t, ToRow(42))
	var nilItem *item.Item
	assert.Nil(t, ToRow(nilItem))
}
