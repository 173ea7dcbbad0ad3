package attribute

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/core/apperror"
)

func TestAttribute_Validate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		attr     *Attribute
		wantCode string
	}{
		{
			name: "valid discrete",
			attr: NewAttribute("Color", Value{Value: "Red", Abbr: "RED"}, Value{Value: "Blue", Abbr: "BLU"}),
		},
		{
			name:     "missing name",
			attr:     NewAttribute(" "),
			wantCode: apperror.CodeValidation,
		},
		{
			name:     "duplicate value ignoring case",
			attr:     NewAttribute("Color", Value{Value: "Red"}, Value{Value: "red"}),
			wantCode: apperror.CodeDuplicate,
		},
		{
			name:     "duplicate abbreviation",
			attr:     NewAttribute("Color", Value{Value: "Red", Abbr: "R"}, Value{Value: "Rose", Abbr: "R"}),
			wantCode: apperror.CodeDuplicate,
		},
		{
			name:     "empty value",
			attr:     NewAttribute("Color", Value{Value: "  "}),
			wantCode: apperror.CodeValidation,
		},
		{
			name: "numeric with range",
			attr: NewNumericAttribute("Length", decimal.NewFromInt(1), decimal.NewFromInt(12), decimal.NewFromFloat(0.5)),
		},
		{
			name:     "numeric inverted range",
			attr:     NewNumericAttribute("Length", decimal.NewFromInt(5), decimal.NewFromInt(2), decimal.Zero),
			wantCode: apperror.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.attr.Validate(ctx)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestAttribute_AddValueKeepsOrder(t *testing.T) {
	a := NewAttribute("Sticker")
	a.AddValue("With Sticker", "WS")
	a.AddValue("No Sticker", "")

	require.Len(t, a.Values, 2)
	assert.Equal(t, 1, a.Values[0].Idx)
	assert.Equal(t, 2, a.Values[1].Idx)
	assert.Equal(t, "Sticker", a.Values[1].Attribute)
	assert.Equal(t, "WS", a.Values[0].Label())
	assert.Equal(t, "No Sticker", a.Values[1].Label())
}
