package item

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/core/apperror"
	"varibulk/internal/core/tx"
	"varibulk/internal/domain/catalogs/attribute"
)

func newTestService(items ...*Item) (*Service, *MemoryRepository) {
	attrs := attribute.NewMemoryRepository(
		attribute.NewAttribute("Color", attribute.Value{Value: "Red"}),
		attribute.NewAttribute("Size", attribute.Value{Value: "S"}),
		attribute.NewAttribute("Sticker", attribute.Value{Value: "With Sticker"}),
		attribute.NewAttribute("Sticker Brand", attribute.Value{Value: "Acme"}),
		attribute.NewAttribute("Finish", attribute.Value{Value: "Matte"}),
	)
	repo := NewMemoryRepository(items...)
	return NewService(repo, attrs, tx.Nop{}, 3), repo
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("template with known attributes", func(t *testing.T) {
		svc, repo := newTestService()
		err := svc.Create(ctx, NewTemplate("T1", "Shirt", "Color", "Size"))
		require.NoError(t, err)

		got, err := repo.GetByName(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Color", "Size"}, got.AttributeNames())
	})

	t.Run("unknown attribute", func(t *testing.T) {
		svc, _ := newTestService()
		err := svc.Create(ctx, NewTemplate("T1", "Shirt", "Weight"))
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("too many attributes", func(t *testing.T) {
		svc, _ := newTestService()
		err := svc.Create(ctx, NewTemplate("T1", "Shirt", "Color", "Size", "Finish", "Sticker"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most 3")
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc, _ := newTestService(NewItem("T1", "Existing"))
		err := svc.Create(ctx, NewTemplate("T1", "Shirt", "Color"))
		assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
	})
}

func TestService_ConfigureTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("role collision is rejected at configuration time", func(t *testing.T) {
		svc, _ := newTestService(NewItem("PROFILE", "Profile"))
		_, err := svc.ConfigureTemplate(ctx, "PROFILE", []TemplateAttribute{
			{Attribute: "Sticker"},
			{Attribute: "Sticker Brand"},
		})
		assert.True(t, apperror.IsConfiguration(err))
	})

	t.Run("explicit roles are stored in order", func(t *testing.T) {
		svc, repo := newTestService(NewItem("PROFILE", "Profile"))
		it, err := svc.ConfigureTemplate(ctx, "PROFILE", []TemplateAttribute{
			{Attribute: "Sticker", Role: RoleSticker},
			{Attribute: "Sticker Brand", Role: RolePowderCode},
		})
		require.NoError(t, err)
		assert.True(t, it.HasVariants)

		stored, err := repo.GetByName(ctx, "PROFILE")
		require.NoError(t, err)
		require.Len(t, stored.TemplateAttributes, 2)
		assert.Equal(t, 2, stored.TemplateAttributes[1].Idx)
		assert.Equal(t, RolePowderCode, stored.TemplateAttributes[1].Role)
	})

	t.Run("variants cannot be configured", func(t *testing.T) {
		tmpl := "T1"
		variant := NewItem("T1-RED", "Shirt-RED")
		variant.VariantOf = &tmpl
		svc, _ := newTestService(variant)

		_, err := svc.ConfigureTemplate(ctx, "T1-RED", []TemplateAttribute{{Attribute: "Color"}})
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("missing item", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.ConfigureTemplate(ctx, "NOPE", nil)
		assert.True(t, apperror.IsNotFound(err))
	})
}
