package item

import (
	"fmt"
	"strings"

	"varibulk/internal/core/apperror"
)

// Role is the semantic meaning of a template attribute for callers that select
// values by meaning instead of by position.
type Role string

const (
	RoleNone       Role = ""
	RoleSticker    Role = "sticker"
	RolePowderCode Role = "powder_code"
	RoleLength     Role = "length"
)

// Roles lists the supported roles in matching order.
var Roles = []Role{RoleSticker, RolePowderCode, RoleLength}

var roleKeywords = map[Role]string{
	RoleSticker:    "sticker",
	RolePowderCode: "powder",
	RoleLength:     "length",
}

// ParseRole validates a role name coming from configuration or API input.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r == RoleNone {
		return RoleNone, nil
	}
	if _, ok := roleKeywords[r]; ok {
		return r, nil
	}
	return RoleNone, apperror.NewValidation(fmt.Sprintf("unknown attribute role %q", s)).
		WithDetail("allowed", Roles)
}

// InferRole derives a role from an attribute name by case-insensitive keyword.
// Used only for templates that have no explicit role configured.
func InferRole(attribute string) Role {
	name := strings.ToLower(attribute)
	for _, r := range Roles {
		if strings.Contains(name, roleKeywords[r]) {
			return r
		}
	}
	return RoleNone
}

// EffectiveRole returns the explicit role, falling back to the inferred one.
func (a TemplateAttribute) EffectiveRole() Role {
	if a.Role != RoleNone {
		return a.Role
	}
	return InferRole(a.Attribute)
}

// ValidateRoles fails when two attributes of one template resolve to the same role.
func ValidateRoles(template string, attrs []TemplateAttribute) error {
	owner := make(map[Role]string, len(attrs))
	for _, a := range attrs {
		r := a.EffectiveRole()
		if r == RoleNone {
			continue
		}
		if prev, ok := owner[r]; ok {
			return apperror.NewConfiguration(fmt.Sprintf(
				"Template %s maps role %s to both %s and %s. Configure an explicit role for each attribute.",
				template, r, prev, a.Attribute)).
				WithDetail("template", template).
				WithDetail("role", string(r)).
				WithDetail("attributes", []string{prev, a.Attribute})
		}
		owner[r] = a.Attribute
	}
	return nil
}
