package variant

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/item"
)

// Selections are the caller's attribute choices for one variant, either
// positional (primary, secondary, tertiary value) or keyed by role.
type Selections struct {
	Values []string             `json:"values,omitempty"`
	Roles  map[item.Role]string `json:"roles,omitempty"`
}

// Positional builds selections from values in template attribute order.
func Positional(values ...string) Selections {
	return Selections{Values: values}
}

// ByRole builds role-keyed selections. Empty values are dropped.
func ByRole(roles map[item.Role]string) Selections {
	sel := Selections{Roles: make(map[item.Role]string, len(roles))}
	for r, v := range roles {
		if v = strings.TrimSpace(v); v != "" {
			sel.Roles[r] = v
		}
	}
	return sel
}

// IsEmpty reports whether no value was supplied at all.
func (s Selections) IsEmpty() bool {
	for _, v := range s.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return len(s.Roles) == 0
}

// BoundValue is the value bound to one template attribute.
type BoundValue struct {
	Attribute string    `json:"attribute"`
	Value     string    `json:"value"`
	Abbr      string    `json:"abbr,omitempty"`
	Role      item.Role `json:"role,omitempty"`
	Numeric   bool      `json:"numeric,omitempty"`
}

// Label is the fragment used in generated codes and names.
func (v BoundValue) Label() string {
	if v.Abbr != "" {
		return v.Abbr
	}
	return strings.ToUpper(v.Value)
}

// Binding maps every template attribute to exactly one value, in template order.
type Binding struct {
	values []BoundValue
}

// Values returns the bound values in template order.
func (b Binding) Values() []BoundValue {
	return append([]BoundValue(nil), b.values...)
}

// Len returns the number of bound attributes.
func (b Binding) Len() int {
	return len(b.values)
}

// Get returns the value bound to attribute.
func (b Binding) Get(attribute string) (string, bool) {
	for _, v := range b.values {
		if v.Attribute == attribute {
			return v.Value, true
		}
	}
	return "", false
}

// ByRole returns the bound value carrying role.
func (b Binding) ByRole(role item.Role) (BoundValue, bool) {
	for _, v := range b.values {
		if v.Role == role {
			return v, true
		}
	}
	return BoundValue{}, false
}

// Map returns the binding as attribute name to value.
func (b Binding) Map() map[string]string {
	m := make(map[string]string, len(b.values))
	for _, v := range b.values {
		m[v.Attribute] = v.Value
	}
	return m
}

// Key is the canonical form of the binding. It does not depend on
// attribute order, so equal bindings always share a key.
func (b Binding) Key() string {
	parts := make([]string, 0, len(b.values))
	for _, v := range b.values {
		parts = append(parts, strconv.Quote(v.Attribute)+"="+strconv.Quote(v.Value))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

// Summary renders "Attr: Value, Attr2: Value2" for logs.
func (b Binding) Summary() string {
	parts := make([]string, 0, len(b.values))
	for _, v := range b.values {
		if v.Attribute != "" && v.Value != "" {
			parts = append(parts, v.Attribute+": "+v.Value)
		}
	}
	return strings.Join(parts, ", ")
}

// IssueKind classifies a problem found while binding selections.
type IssueKind int

const (
	// IssueMissing means a template attribute received no value.
	IssueMissing IssueKind = iota + 1
	// IssueInvalid means the value is not in the attribute's value set.
	IssueInvalid
	// IssueUnmatchedRole means a role was supplied that no template attribute carries.
	IssueUnmatchedRole
	// IssueUnexpected means a positional value was supplied past the last attribute.
	IssueUnexpected
)

// Issue is one binding problem. Attribute is empty for unmatched inputs.
type Issue struct {
	Kind      IssueKind
	Attribute string
	Value     string
	Role      item.Role
	Position  int
}

// AttributeLabel names the attribute for messages.
func (i Issue) AttributeLabel() string {
	switch {
	case i.Attribute != "":
		return i.Attribute
	case i.Role != item.RoleNone:
		return "role " + string(i.Role)
	default:
		return "Unknown"
	}
}

func (i Issue) message(template string) string {
	switch i.Kind {
	case IssueMissing:
		return fmt.Sprintf("Attribute Value is required for %s on template %s.", i.Attribute, template)
	case IssueInvalid:
		return fmt.Sprintf("Attribute value %s is not defined for %s on template %s.", i.Value, i.Attribute, template)
	case IssueUnmatchedRole:
		return fmt.Sprintf("Template %s has no attribute for role %s (value %s).", template, i.Role, i.Value)
	default:
		return fmt.Sprintf("Template %s has no attribute at position %d (value %s).", template, i.Position, i.Value)
	}
}

// BindingStrategy maps selections onto template attributes. Assign returns one
// raw value per template attribute, in template order, with "" where nothing
// was supplied, plus issues for inputs no attribute accepts.
type BindingStrategy interface {
	Name() string
	Assign(tc *TemplateContext, sel Selections) ([]string, []Issue)
}

// PositionalStrategy binds selection i to template attribute i. Role-keyed
// selections are reported as unmatched since no attribute carries a role.
type PositionalStrategy struct {
	MaxArity int
}

// Name implements BindingStrategy.
func (p PositionalStrategy) Name() string { return "positional" }

// Assign implements BindingStrategy.
func (p PositionalStrategy) Assign(tc *TemplateContext, sel Selections) ([]string, []Issue) {
	raw := make([]string, len(tc.Attributes))
	issues := fillPositions(raw, p.arity(tc), sel.Values)
	return raw, append(issues, unmatchedRoles(sel.Roles, nil)...)
}

func (p PositionalStrategy) arity(tc *TemplateContext) int {
	if p.MaxArity > 0 && p.MaxArity < len(tc.Attributes) {
		return p.MaxArity
	}
	return len(tc.Attributes)
}

// RoleBasedStrategy binds role-keyed selections to the attribute carrying that
// role. Attributes left unbound take the positional value at their index, so
// rows may mix roles and values on templates where only some attributes have a role.
type RoleBasedStrategy struct{}

// Name implements BindingStrategy.
func (RoleBasedStrategy) Name() string { return "role" }

// Assign implements BindingStrategy.
func (RoleBasedStrategy) Assign(tc *TemplateContext, sel Selections) ([]string, []Issue) {
	raw := make([]string, len(tc.Attributes))
	matched := make(map[item.Role]bool, len(sel.Roles))
	for i, a := range tc.Attributes {
		if a.Role == item.RoleNone {
			continue
		}
		if v, ok := sel.Roles[a.Role]; ok {
			raw[i] = strings.TrimSpace(v)
			matched[a.Role] = true
		}
	}

	issues := fillPositions(raw, len(tc.Attributes), sel.Values)
	return raw, append(issues, unmatchedRoles(sel.Roles, matched)...)
}

// fillPositions copies values into the empty slots of raw up to arity and
// reports non-blank values past it.
func fillPositions(raw []string, arity int, values []string) []Issue {
	var issues []Issue
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if i >= arity {
			issues = append(issues, Issue{Kind: IssueUnexpected, Value: v, Position: i + 1})
			continue
		}
		if raw[i] == "" {
			raw[i] = v
		}
	}
	return issues
}

// unmatchedRoles reports supplied roles that no template attribute took, known roles first.
func unmatchedRoles(roles map[item.Role]string, matched map[item.Role]bool) []Issue {
	var issues []Issue
	for _, r := range item.Roles {
		if v, ok := roles[r]; ok && !matched[r] {
			issues = append(issues, Issue{Kind: IssueUnmatchedRole, Role: r, Value: v})
		}
	}
	var unknown []item.Role
	for r := range roles {
		if !knownRole(r) {
			unknown = append(unknown, r)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, r := range unknown {
		issues = append(issues, Issue{Kind: IssueUnmatchedRole, Role: r, Value: roles[r]})
	}
	return issues
}

func knownRole(r item.Role) bool {
	for _, known := range item.Roles {
		if known == r {
			return true
		}
	}
	return false
}

// StrategyFor picks the strategy from the template shape: role-based when any
// attribute has a role, positional otherwise.
func StrategyFor(tc *TemplateContext) BindingStrategy {
	if tc.RoleBased() {
		return RoleBasedStrategy{}
	}
	return PositionalStrategy{MaxArity: len(tc.Attributes)}
}

// Match assigns selections with strategy and checks each value against the
// attribute's value set. Numeric attributes accept any value; values that
// parse as numbers are canonicalised so that 6.50 and 6.5 bind alike, and
// other text is lower-cased so that 6M and 6m do.
func Match(tc *TemplateContext, strategy BindingStrategy, sel Selections) (Binding, []Issue) {
	raw, issues := strategy.Assign(tc, sel)

	var b Binding
	for i, attr := range tc.Attributes {
		v := raw[i]
		if v == "" {
			issues = append(issues, Issue{Kind: IssueMissing, Attribute: attr.Name, Role: attr.Role, Position: i + 1})
			continue
		}

		bound := BoundValue{Attribute: attr.Name, Role: attr.Role, Numeric: attr.Numeric}
		if attr.Numeric {
			bound.Value = canonicalNumber(v)
			b.values = append(b.values, bound)
			continue
		}

		allowed, ok := attr.Lookup(v)
		if !ok {
			issues = append(issues, Issue{Kind: IssueInvalid, Attribute: attr.Name, Value: v, Role: attr.Role, Position: i + 1})
			continue
		}
		bound.Value = allowed.Value
		bound.Abbr = allowed.Abbr
		b.values = append(b.values, bound)
	}

	return b, issues
}

// Bind maps selections onto the template with the strategy its shape selects
// and returns a complete binding, or a validation error for the first problem.
func Bind(tc *TemplateContext, sel Selections) (Binding, error) {
	b, issues := Match(tc, StrategyFor(tc), sel)
	if len(issues) > 0 {
		return Binding{}, issueError(tc.Template, 0, issues[0])
	}
	return b, nil
}

func issueError(template string, row int, issue Issue) error {
	msg := issue.message(template)
	if row > 0 {
		msg = fmt.Sprintf("Row %d: %s", row, msg)
	}
	err := apperror.NewValidation(msg).
		WithDetail("template", template).
		WithDetail("attribute", issue.AttributeLabel())
	if issue.Value != "" {
		err = err.WithDetail("value", issue.Value)
	}
	if row > 0 {
		err = err.WithDetail("row", row)
	}
	return err
}

func canonicalNumber(v string) string {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return strings.ToLower(v)
	}
	return d.String()
}
