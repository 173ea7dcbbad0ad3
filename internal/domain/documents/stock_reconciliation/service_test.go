package stock_reconciliation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/domain/catalogs/item"
)

type resolverFunc func(ctx context.Context, template, sticker, powderCode, length string) (*item.Item, error)

func (f resolverFunc) ResolveByRole(ctx context.Context, template, sticker, powderCode, length string) (*item.Item, error) {
	return f(ctx, template, sticker, powderCode, length)
}

func TestService_ResolveVariant(t *testing.T) {
	var got []string
	svc := NewService(resolverFunc(func(_ context.Context, template, sticker, powderCode, length string) (*item.Item, error) {
		got = []string{template, sticker, powderCode, length}
		return item.NewItem("PROFILE-WS-9016-6", "Aluminium Profile-WS-9016-6"), nil
	}))

	res, err := svc.ResolveVariant(context.Background(), ResolveRequest{
		TemplateItem: "PROFILE", Sticker: "With Sticker", PowderCode: "RAL9016", Length: "6",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PROFILE", "With Sticker", "RAL9016", "6"}, got)
	assert.Equal(t, "PROFILE-WS-9016-6", res.ItemCode)
	assert.Equal(t, "Aluminium Profile-WS-9016-6", res.ItemName)
}
