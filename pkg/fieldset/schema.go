// Package fieldset evaluates dynamic property declarations against a form state.
// It decides, for every field of a configurable entity, whether the field is visible,
// disabled, valid, and which default it takes when unset.
package fieldset

import "context"

// PropertyType is the declared type of a field.
type PropertyType string

const (
	TypeString            PropertyType = "string"
	TypeText              PropertyType = "text"
	TypeCode              PropertyType = "code"
	TypeExpression        PropertyType = "expression"
	TypeColor             PropertyType = "color"
	TypeDateTime          PropertyType = "dateTime"
	TypeHidden            PropertyType = "hidden"
	TypeNumber            PropertyType = "number"
	TypeBoolean           PropertyType = "boolean"
	TypeSelect            PropertyType = "select"
	TypeMultiSelect       PropertyType = "multiSelect"
	TypeOptions           PropertyType = "options"
	TypeCredentialsSelect PropertyType = "credentialsSelect"
	TypeJSON              PropertyType = "json"
	TypeFile              PropertyType = "file"
	TypeCollection        PropertyType = "collection"
	TypeFixedCollection   PropertyType = "fixedCollection"
	TypeResourceLocator   PropertyType = "resourceLocator"
	TypeResourceMapper    PropertyType = "resourceMapper"
	TypeNotice            PropertyType = "notice"
	TypeButton            PropertyType = "button"
)

// KnownTypes lists every property type the default calculator understands.
var KnownTypes = []PropertyType{
	TypeString, TypeText, TypeCode, TypeExpression, TypeColor, TypeDateTime, TypeHidden,
	TypeNumber, TypeBoolean, TypeSelect, TypeMultiSelect, TypeOptions, TypeCredentialsSelect,
	TypeJSON, TypeFile, TypeCollection, TypeFixedCollection, TypeResourceLocator,
	TypeResourceMapper, TypeNotice, TypeButton,
}

// Operator is a dependency rule comparison operator.
type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "notEquals"
	OpIn        Operator = "in"
	OpNotIn     Operator = "notIn"
	OpExists    Operator = "exists"
	OpEmpty     Operator = "empty"
	OpRegex     Operator = "regex"
)

// Operators lists the closed operator set.
var Operators = []Operator{OpEquals, OpNotEquals, OpIn, OpNotIn, OpExists, OpEmpty, OpRegex}

// RuleKind identifies a validation rule.
type RuleKind string

const (
	KindRequired  RuleKind = "required"
	KindMinLength RuleKind = "minLength"
	KindMaxLength RuleKind = "maxLength"
	KindPattern   RuleKind = "pattern"
	KindCustom    RuleKind = "custom"
)

// Severity of a validation rule failure.
type Severity string

const (
	SeverityError   Severity = "error" // default
	SeverityWarning Severity = "warning"
)

// FormState maps field names to their current values.
// It is owned by the host; the engine only writes computed defaults into it.
type FormState map[string]any

// CustomFunc is a caller-supplied validation predicate with access to the whole form state.
// It may block (e.g. a remote uniqueness check) and should honour ctx.
type CustomFunc func(ctx context.Context, value any, state FormState) (bool, error)

// Declaration describes one field of a field set.
// Declarations are immutable for the lifetime of an editing session.
type Declaration struct {
	Name        string         `json:"name" yaml:"name" toml:"name"`
	DisplayName string         `json:"displayName,omitempty" yaml:"displayName,omitempty" toml:"displayName,omitempty"`
	Type        PropertyType   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Default     any            `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"` // nil = no declared default
	Required    bool           `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Placeholder string         `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	Hint        string         `json:"hint,omitempty" yaml:"hint,omitempty" toml:"hint,omitempty"`
	Options     []SelectOption `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`

	Validation []ValidationRule `json:"validation,omitempty" yaml:"validation,omitempty" toml:"validation,omitempty"`

	DisplayConditions `yaml:",inline"`
	DisplayOptions    *DisplayOptions `json:"displayOptions,omitempty" yaml:"displayOptions,omitempty" toml:"displayOptions,omitempty"` // legacy map form

	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty" toml:"dependsOn,omitempty"`
	Affects   []string `json:"affects,omitempty" yaml:"affects,omitempty" toml:"affects,omitempty"` // advisory only
}

// Label returns the human-readable name used in validation messages.
func (d *Declaration) Label() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}

// SelectOption is a selectable value for select-like fields.
type SelectOption struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Value       any    `json:"value" yaml:"value" toml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// DisplayConditions holds the four rule sets. Rules within a set are ANDed.
type DisplayConditions struct {
	Show    []Rule `json:"show,omitempty" yaml:"show,omitempty" toml:"show,omitempty"`
	Hide    []Rule `json:"hide,omitempty" yaml:"hide,omitempty" toml:"hide,omitempty"`
	Enable  []Rule `json:"enable,omitempty" yaml:"enable,omitempty" toml:"enable,omitempty"`
	Disable []Rule `json:"disable,omitempty" yaml:"disable,omitempty" toml:"disable,omitempty"`
}

// DisplayOptions is the legacy map form: field name -> accepted values.
// Each entry becomes an "in" rule on the matching set.
type DisplayOptions struct {
	Show map[string][]any `json:"show,omitempty" yaml:"show,omitempty" toml:"show,omitempty"`
	Hide map[string][]any `json:"hide,omitempty" yaml:"hide,omitempty" toml:"hide,omitempty"`
}

// Rule is a single dependency rule evaluated against another field's value.
type Rule struct {
	Property        string   `json:"property" yaml:"property" toml:"property"`
	Operator        Operator `json:"operator" yaml:"operator" toml:"operator"`
	Value           any      `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"` // absent for exists/empty
	CaseInsensitive bool     `json:"caseInsensitive,omitempty" yaml:"caseInsensitive,omitempty" toml:"caseInsensitive,omitempty"`
}

// ValidationRule is one link of a field's ordered validation chain.
type ValidationRule struct {
	Kind      RuleKind   `json:"kind" yaml:"kind" toml:"kind"`
	Value     any        `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Message   string     `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
	Validator string     `json:"validator,omitempty" yaml:"validator,omitempty" toml:"validator,omitempty"` // registry name for custom rules
	Severity  Severity   `json:"severity,omitempty" yaml:"severity,omitempty" toml:"severity,omitempty"`
	Func      CustomFunc `json:"-" yaml:"-" toml:"-"`
}

// Result is the evaluation outcome for one field.
type Result struct {
	Visible    bool   `json:"visible"`
	Disabled   bool   `json:"disabled"`
	Required   bool   `json:"required"`
	Error      string `json:"error,omitempty"`
	Warning    string `json:"warning,omitempty"`
	Default    any    `json:"default,omitempty"`
	HasDefault bool   `json:"hasDefault,omitempty"` // Default is meaningful (value was unset)
}

// Summary is the whole-form validation outcome consumed before save/submit.
type Summary struct {
	Valid    bool              `json:"isValid"`
	Errors   map[string]string `json:"errors"`
	Warnings map[string]string `json:"warnings"`
}

// Graph maps a field name to the fields that depend on it, in declaration order.
type Graph map[string][]string

// isUnset reports whether a form value counts as not provided.
func isUnset(state FormState, name string) bool {
	v, ok := state[name]
	return !ok || v == nil
}
