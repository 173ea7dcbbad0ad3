package variant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/item"
)

func resolve(t *testing.T, f *fixture, template string) *TemplateContext {
	t.Helper()
	tc, err := f.resolver.ResolveTemplate(context.Background(), template)
	require.NoError(t, err)
	return tc
}

func TestBind_Positional(t *testing.T) {
	f := newFixture(t)
	tc := resolve(t, f, "SHIRT")
	assert.Equal(t, "positional", StrategyFor(tc).Name())

	b, err := Bind(tc, Positional(" Blue ", "Small"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Color": "Blue", "Size": "Small"}, b.Map())
	assert.Equal(t, "Color: Blue, Size: Small", b.Summary())

	values := b.Values()
	require.Len(t, values, 2)
	assert.Equal(t, "BL", values[0].Label())
	assert.Equal(t, "S", values[1].Label())
}

func TestBind_PositionalErrors(t *testing.T) {
	f := newFixture(t)
	tc := resolve(t, f, "SHIRT")

	tests := []struct {
		name    string
		sel     Selections
		message string
	}{
		{
			name:    "missing value",
			sel:     Positional("Red"),
			message: "Attribute Value is required for Size on template SHIRT.",
		},
		{
			name:    "value outside the set",
			sel:     Positional("Green", "Small"),
			message: "Attribute value Green is not defined for Color on template SHIRT.",
		},
		{
			name:    "extra value",
			sel:     Positional("Red", "Small", "XL"),
			message: "Template SHIRT has no attribute at position 3 (value XL).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind(tc, tt.sel)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))

			appErr, _ := apperror.AsAppError(err)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, "SHIRT", appErr.Details["template"])
		})
	}
}

func TestBind_RoleBased(t *testing.T) {
	f := newFixture(t)
	tc := resolve(t, f, "PROFILE")
	assert.Equal(t, "role", StrategyFor(tc).Name())

	b, err := Bind(tc, ByRole(map[item.Role]string{
		item.RoleLength:     "6.50",
		item.RoleSticker:    "With Sticker",
		item.RolePowderCode: "RAL9016",
	}))
	require.NoError(t, err)

	length, ok := b.ByRole(item.RoleLength)
	require.True(t, ok)
	assert.Equal(t, "6.5", length.Value)
	assert.Equal(t, "Sticker: With Sticker, Powder Code: RAL9016, Length: 6.5", b.Summary())

	t.Run("positional input on a role template", func(t *testing.T) {
		b2, err := Bind(tc, Positional("With Sticker", "RAL9016", "6.5"))
		require.NoError(t, err)
		assert.Equal(t, b.Key(), b2.Key())
	})

	t.Run("numeric text is kept", func(t *testing.T) {
		b3, err := Bind(tc, ByRole(map[item.Role]string{
			item.RoleSticker: "No Sticker", item.RolePowderCode: "RAL7016", item.RoleLength: "6m",
		}))
		require.NoError(t, err)
		v, _ := b3.Get("Length")
		assert.Equal(t, "6m", v)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := Bind(tc, ByRole(map[item.Role]string{
			item.RoleSticker: "With Sticker", item.RolePowderCode: "RAL9016", item.RoleLength: "6",
			item.Role("colour"): "Red",
		}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no attribute for role colour")
	})

	t.Run("missing role", func(t *testing.T) {
		_, err := Bind(tc, ByRole(map[item.Role]string{item.RoleSticker: "With Sticker", item.RoleLength: "6"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Powder Code")
	})
}

func TestBind_PartialRoleTemplate(t *testing.T) {
	f := newFixture(t)
	tc := resolve(t, f, "MIX")
	require.Equal(t, "role", StrategyFor(tc).Name())

	sel := Selections{
		Values: []string{"", "", "Red"},
		Roles:  map[item.Role]string{item.RolePowderCode: "RAL9016", item.RoleLength: "6"},
	}
	b, err := Bind(tc, sel)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Powder Code": "RAL9016", "Length": "6", "Color": "Red"}, b.Map())

	t.Run("positional only", func(t *testing.T) {
		b2, err := Bind(tc, Positional("RAL9016", "6.0", "Red"))
		require.NoError(t, err)
		assert.Equal(t, b.Key(), b2.Key())
	})

	t.Run("role wins over the value at its position", func(t *testing.T) {
		b3, err := Bind(tc, Selections{
			Values: []string{"RAL7016", "", "Red"},
			Roles:  map[item.Role]string{item.RolePowderCode: "RAL9016", item.RoleLength: "6"},
		})
		require.NoError(t, err)
		v, _ := b3.Get("Powder Code")
		assert.Equal(t, "RAL9016", v)
	})

	t.Run("attribute without a role still required", func(t *testing.T) {
		_, err := Bind(tc, ByRole(map[item.Role]string{item.RolePowderCode: "RAL9016", item.RoleLength: "6"}))
		require.Error(t, err)
		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, "Attribute Value is required for Color on template MIX.", appErr.Message)
	})
}

func TestMatch_PositionalReportsIgnoredRoles(t *testing.T) {
	f := newFixture(t)
	tc := resolve(t, f, "SHIRT")
	strategy := StrategyFor(tc)
	require.Equal(t, "positional", strategy.Name())

	_, issues := Match(tc, strategy, Selections{
		Values: []string{"Red", "Small"},
		Roles:  map[item.Role]string{item.RoleLength: "6", item.Role("colour"): "Blue"},
	})
	require.Len(t, issues, 2)
	assert.Equal(t, IssueUnmatchedRole, issues[0].Kind)
	assert.Equal(t, item.RoleLength, issues[0].Role)
	assert.Equal(t, item.Role("colour"), issues[1].Role)
}

func TestBind_NumericTextIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	tc := resolve(t, f, "PROFILE")

	lower, err := Bind(tc, Positional("No Sticker", "RAL7016", "6m"))
	require.NoError(t, err)
	upper, err := Bind(tc, Positional("No Sticker", "RAL7016", "6M"))
	require.NoError(t, err)
	assert.Equal(t, lower.Key(), upper.Key())
}

func TestMatch_RoleOnPositionalTemplate(t *testing.T) {
	f := newFixture(t)
	tc := resolve(t, f, "T1")

	_, issues := Match(tc, RoleBasedStrategy{}, ByRole(map[item.Role]string{item.RoleSticker: "With Sticker"}))
	require.Len(t, issues, 2)
	assert.Equal(t, IssueUnmatchedRole, issues[0].Kind)
	assert.Equal(t, "role sticker", issues[0].AttributeLabel())
	assert.Equal(t, IssueMissing, issues[1].Kind)
	assert.Equal(t, "Color", issues[1].Attribute)
}

func TestBinding_Key(t *testing.T) {
	a := Binding{values: []BoundValue{{Attribute: "Color", Value: "Red"}, {Attribute: "Size", Value: "S"}}}
	b := Binding{values: []BoundValue{{Attribute: "Size", Value: "S"}, {Attribute: "Color", Value: "Red"}}}
	c := Binding{values: []BoundValue{{Attribute: "Color", Value: "Red;Size=S"}}}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, `"Color"="Red";"Size"="S"`, a.Key())
}

func TestSelections_IsEmpty(t *testing.T) {
	assert.True(t, Positional("", " ").IsEmpty())
	assert.True(t, ByRole(map[item.Role]string{item.RoleSticker: " "}).IsEmpty())
	assert.False(t, Positional("", "Red").IsEmpty())
}
