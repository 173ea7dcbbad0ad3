package sales_order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/domain/variant"
)

type resolverFunc func(ctx context.Context, template string, sel variant.Selections, ov variant.Overrides) (*variant.MaterializeResult, error)

func (f resolverFunc) Materialize(ctx context.Context, template string, sel variant.Selections, ov variant.Overrides) (*variant.MaterializeResult, error) {
	return f(ctx, template, sel, ov)
}

func stubResolver(calls *int) resolverFunc {
	return func(ctx context.Context, template string, sel variant.Selections, ov variant.Overrides) (*variant.MaterializeResult, error) {
		*calls++
		if sel.Values[0] == "Green" {
			return nil, apperror.NewValidation("Attribute value Green is not defined for Color on template T1.")
		}
		v := item.NewItem(template+"-"+sel.Values[0], "Shirt "+sel.Values[0])
		v.Description = "Shirt\nColor: " + sel.Values[0]
		v.StockUOM = "Nos"
		return &variant.MaterializeResult{Item: v, Created: true}, nil
	}
}

func TestService_EnsureVariants(t *testing.T) {
	var calls int
	svc := NewService(stubResolver(&calls), &variant.MemorySink{})

	rows := []Item{
		{TemplateItem: "T1", AttributeValue: "Red"},
		{ItemCode: "SCREW-01", ConversionFactor: decimal.NewFromInt(12)},
		{TemplateItem: "T1", Values: []string{"Blue"}, ConversionFactor: decimal.NewFromInt(6)},
	}

	out, err := svc.EnsureVariants(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	assert.Equal(t, "T1-Red", out[0].ItemCode)
	assert.Equal(t, "Shirt Red", out[0].ItemName)
	assert.Equal(t, "Nos", out[0].UOM)
	assert.Equal(t, "Nos", out[0].StockUOM)
	assert.True(t, out[0].ConversionFactor.Equal(decimal.NewFromInt(1)))

	assert.Equal(t, "SCREW-01", out[1].ItemCode)
	assert.True(t, out[2].ConversionFactor.Equal(decimal.NewFromInt(6)), "set factor is kept")
	assert.Empty(t, rows[0].ItemCode, "input rows are not modified")
}

func TestService_EnsureVariants_Failure(t *testing.T) {
	var calls int
	sink := &variant.MemorySink{}
	svc := NewService(stubResolver(&calls), sink)

	_, err := svc.EnsureVariants(context.Background(), []Item{{TemplateItem: "T1", AttributeValue: "Green"}})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Unable to create or locate variant for Green on template T1.", appErr.Message)

	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, variant.SinkTitleSalesOrder, entries[0].Title)
}

func TestService_ResolveVariant(t *testing.T) {
	var calls int
	svc := NewService(stubResolver(&calls), nil)

	got, err := svc.ResolveVariant(context.Background(), "T1", []string{"Red"})
	require.NoError(t, err)
	assert.Equal(t, "T1-Red", got.ItemCode)
	assert.Equal(t, "Nos", got.StockUOM)
	assert.Equal(t, "1", got.ConversionFactor.String())

	failing := NewService(resolverFunc(func(context.Context, string, variant.Selections, variant.Overrides) (*variant.MaterializeResult, error) {
		return nil, errors.New("store down")
	}), nil)
	_, err = failing.ResolveVariant(context.Background(), "T1", []string{"Red"})
	assert.Error(t, err)
}
