package variant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/core/apperror"
	"varibulk/internal/core/tx"
	"varibulk/internal/domain/catalogs/item"
)

func materialize(t *testing.T, f *fixture, template string, sel Selections, ov Overrides) (*MaterializeResult, error) {
	t.Helper()
	return f.svc.Materialize(context.Background(), template, sel, ov)
}

func TestMaterialize_Idempotent(t *testing.T) {
	f := newFixture(t)

	first, err := materialize(t, f, "T1", Positional("Red"), Overrides{})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "T1-RED", first.Item.Name)
	assert.Equal(t, "T-Shirt-RED", first.Item.ItemName)
	assert.Equal(t, "T-Shirt\nColor: Red", first.Item.Description)
	require.NotNil(t, first.Item.VariantOf)
	assert.Equal(t, "T1", *first.Item.VariantOf)

	second, err := materialize(t, f, "T1", Positional("Red"), Overrides{ItemName: "ignored"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, "T1-RED", second.Item.Name)
	assert.Equal(t, "T-Shirt-RED", second.Item.ItemName, "existing variant is returned unchanged")

	assert.Len(t, f.items.VariantsOf("T1"), 1)
}

func TestMaterialize_RenameOnCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("provider stored the variant", func(t *testing.T) {
		f := newFixture(t)
		f.provider.CreateFunc = func(ctx context.Context, tc *TemplateContext, b Binding) (*item.Item, error) {
			v, err := NewStoreProvider(f.items).CreateVariant(ctx, tc, b)
			if err != nil {
				return nil, err
			}
			return v, f.items.Create(ctx, v)
		}

		res, err := materialize(t, f, "T1", Positional("Blue"), Overrides{Code: "SHIRT-BLUE-01"})
		require.NoError(t, err)
		assert.Equal(t, "SHIRT-BLUE-01", res.Item.Name)
		assert.Equal(t, 1, f.items.Calls["rename"])

		_, err = f.items.GetByName(ctx, "T1-BL")
		assert.True(t, apperror.IsNotFound(err))
		_, err = f.items.GetByName(ctx, "SHIRT-BLUE-01")
		assert.NoError(t, err)
	})

	t.Run("provider returned an unsaved variant", func(t *testing.T) {
		f := newFixture(t)

		res, err := materialize(t, f, "T1", Positional("Blue"), Overrides{Code: "SHIRT-BLUE-01"})
		require.NoError(t, err)
		assert.Equal(t, "SHIRT-BLUE-01", res.Item.Name)
		assert.Zero(t, f.items.Calls["rename"])

		exists, _ := f.items.Exists(ctx, "T1-BL")
		assert.False(t, exists)

		again, err := materialize(t, f, "T1", Positional("Blue"), Overrides{})
		require.NoError(t, err)
		assert.False(t, again.Created)
		assert.Equal(t, "SHIRT-BLUE-01", again.Item.Name)
	})
}

func TestMaterialize_OverridesAndWeight(t *testing.T) {
	f := newFixture(t)

	res, err := materialize(t, f, "PROFILE",
		ByRole(map[item.Role]string{
			item.RoleSticker:    "With Sticker",
			item.RolePowderCode: "RAL9016",
			item.RoleLength:     "6.5",
		}),
		Overrides{ItemName: "Profile 6.5m white", SKU: "PRF-65-W", Description: "Custom"},
	)
	require.NoError(t, err)

	it := res.Item
	assert.Equal(t, "PROFILE-WS-9016-6.5", it.Name)
	assert.Equal(t, "Profile 6.5m white", it.ItemName)
	require.NotNil(t, it.VariantSKU)
	assert.Equal(t, "PRF-65-W", *it.VariantSKU)
	assert.Equal(t, "Custom", it.Description)
	require.True(t, it.PiecesPerKg.Valid)
	assert.Equal(t, "0.3077", it.PiecesPerKg.Decimal.Round(4).String())
	assert.Equal(t, WeightUOM, it.WeightUOM)

	stored, err := f.items.GetByName(context.Background(), it.Name)
	require.NoError(t, err)
	assert.Equal(t, "Profile 6.5m white", stored.ItemName)
	assert.Equal(t, 2, stored.Version)
}

func TestMaterialize_StoreFailure(t *testing.T) {
	t.Run("insert", func(t *testing.T) {
		f := newFixture(t)
		f.items.FailCreate = errors.New("connection reset")

		_, err := materialize(t, f, "T1", Positional("Red"), Overrides{})
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeVariantCreation))
		assert.Contains(t, err.Error(), "connection reset")
		assert.Empty(t, f.items.VariantsOf("T1"))
	})

	t.Run("lookup", func(t *testing.T) {
		f := newFixture(t)
		f.provider.FindFunc = func(context.Context, *TemplateContext, Binding) (string, error) {
			return "", errors.New("timeout")
		}

		_, err := materialize(t, f, "T1", Positional("Red"), Overrides{})
		assert.True(t, apperror.HasCode(err, apperror.CodeVariantCreation))
	})

	t.Run("lock held", func(t *testing.T) {
		f := newFixture(t)
		tc := resolve(t, f, "T1")
		b, err := Bind(tc, Positional("Red"))
		require.NoError(t, err)

		m := NewMaterializer(f.items, f.provider, tx.Nop{}, lockerFunc(func(ctx context.Context, key string) (func(), error) {
			return nil, apperror.NewLocked(key)
		}))
		_, err = m.Materialize(context.Background(), MaterializeRequest{Context: tc, Binding: b})
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeVariantCreation))
		assert.Zero(t, f.items.Calls["create"])
	})
}

type lockerFunc func(ctx context.Context, key string) (func(), error)

func (f lockerFunc) Lock(ctx context.Context, key string) (func(), error) { return f(ctx, key) }
