package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/core/apperror"
)

func TestInferRole(t *testing.T) {
	tests := []struct {
		attribute string
		want      Role
	}{
		{"Sticker", RoleSticker},
		{"Profile STICKER type", RoleSticker},
		{"Powder Code", RolePowderCode},
		{"powder coating", RolePowderCode},
		{"Bar Length (m)", RoleLength},
		{"Color", RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.attribute, func(t *testing.T) {
			assert.Equal(t, tt.want, InferRole(tt.attribute))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Powder_Code ")
	require.NoError(t, err)
	assert.Equal(t, RolePowderCode, r)

	r, err = ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleNone, r)

	_, err = ParseRole("colour")
	assert.True(t, apperror.IsValidation(err))
}

func TestValidateRoles(t *testing.T) {
	t.Run("inferred collision", func(t *testing.T) {
		err := ValidateRoles("PROFILE", []TemplateAttribute{
			{Idx: 1, Attribute: "Sticker"},
			{Idx: 2, Attribute: "Sticker Color"},
		})
		require.Error(t, err)
		assert.True(t, apperror.IsConfiguration(err))
		assert.Contains(t, err.Error(), "PROFILE")
	})

	t.Run("explicit role resolves collision", func(t *testing.T) {
		err := ValidateRoles("PROFILE", []TemplateAttribute{
			{Idx: 1, Attribute: "Sticker", Role: RoleSticker},
			{Idx: 2, Attribute: "Sticker Color", Role: RolePowderCode},
		})
		assert.NoError(t, err)
	})

	t.Run("explicit duplicate", func(t *testing.T) {
		err := ValidateRoles("PROFILE", []TemplateAttribute{
			{Idx: 1, Attribute: "Finish", Role: RoleLength},
			{Idx: 2, Attribute: "Length"},
		})
		assert.True(t, apperror.IsConfiguration(err))
	})
}
