package catalog

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/dlovans/fieldset/pkg/fieldset"
)

// hclFile decodes every top-level field_set block of a file.
type hclFile struct {
	FieldSets []*hclFieldSet `hcl:"field_set,block"`
}

type hclFieldSet struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Properties  []*hclProperty `hcl:"property,block"`
}

type hclProperty struct {
	Name        string           `hcl:"name,label"`
	Type        string           `hcl:"type,optional"`
	DisplayName string           `hcl:"display_name,optional"`
	Default     hcl.Expression   `hcl:"default,optional"`
	Required    bool             `hcl:"required,optional"`
	Description string           `hcl:"description,optional"`
	Placeholder string           `hcl:"placeholder,optional"`
	Hint        string           `hcl:"hint,optional"`
	DependsOn   []string         `hcl:"depends_on,optional"`
	Affects     []string         `hcl:"affects,optional"`
	Options     []*hclOption     `hcl:"option,block"`
	Show        []*hclRule       `hcl:"show,block"`
	Hide        []*hclRule       `hcl:"hide,block"`
	Enable      []*hclRule       `hcl:"enable,block"`
	Disable     []*hclRule       `hcl:"disable,block"`
	Validation  []*hclValidation `hcl:"validation,block"`
}

type hclOption struct {
	Name        string         `hcl:"name,label"`
	Value       hcl.Expression `hcl:"value,optional"`
	Description string         `hcl:"description,optional"`
}

type hclRule struct {
	Property        string         `hcl:"property"`
	Operator        string         `hcl:"operator"`
	Value           hcl.Expression `hcl:"value,optional"`
	CaseInsensitive bool           `hcl:"case_insensitive,optional"`
}

type hclValidation struct {
	Kind      string         `hcl:"kind,label"`
	Value     hcl.Expression `hcl:"value,optional"`
	Message   string         `hcl:"message,optional"`
	Validator string         `hcl:"validator,optional"`
	Severity  string         `hcl:"severity,optional"`
}

// parseHCL decodes all field_set blocks in data. Expressions are evaluated
// without variables or functions, so only literal values are accepted.
func parseHCL(data []byte, path string) ([]*FieldSet, error) {
	filename := path
	if filename == "" {
		filename = "fieldset.hcl"
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var root hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, diags
	}

	sets := make([]*FieldSet, 0, len(root.FieldSets))
	for _, block := range root.FieldSets {
		fs := &FieldSet{Name: block.Name, Description: block.Description}
		for _, prop := range block.Properties {
			decl, err := translateProperty(prop)
			if err != nil {
				return nil, fmt.Errorf("field_set %q: %w", block.Name, err)
			}
			fs.Properties = append(fs.Properties, decl)
		}
		sets = append(sets, fs)
	}
	return sets, nil
}

func translateProperty(p *hclProperty) (*fieldset.Declaration, error) {
	decl := &fieldset.Declaration{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Type:        fieldset.PropertyType(p.Type),
		Required:    p.Required,
		Description: p.Description,
		Placeholder: p.Placeholder,
		Hint:        p.Hint,
		DependsOn:   p.DependsOn,
		Affects:     p.Affects,
	}

	def, err := evalLiteral(p.Default)
	if err != nil {
		return nil, fmt.Errorf("property %q default: %w", p.Name, err)
	}
	decl.Default = def

	for _, o := range p.Options {
		v, err := evalLiteral(o.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q option %q: %w", p.Name, o.Name, err)
		}
		if v == nil {
			v = o.Name
		}
		decl.Options = append(decl.Options, fieldset.SelectOption{Name: o.Name, Value: v, Description: o.Description})
	}

	groups := []struct {
		src []*hclRule
		dst *[]fieldset.Rule
	}{
		{p.Show, &decl.Show},
		{p.Hide, &decl.Hide},
		{p.Enable, &decl.Enable},
		{p.Disable, &decl.Disable},
	}
	for _, g := range groups {
		for _, r := range g.src {
			v, err := evalLiteral(r.Value)
			if err != nil {
				return nil, fmt.Errorf("property %q rule on %q: %w", p.Name, r.Property, err)
			}
			*g.dst = append(*g.dst, fieldset.Rule{
				Property:        r.Property,
				Operator:        fieldset.Operator(r.Operator),
				Value:           v,
				CaseInsensitive: r.CaseInsensitive,
			})
		}
	}

	for _, vr := range p.Validation {
		v, err := evalLiteral(vr.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q validation %q: %w", p.Name, vr.Kind, err)
		}
		decl.Validation = append(decl.Validation, fieldset.ValidationRule{
			Kind:      fieldset.RuleKind(vr.Kind),
			Value:     v,
			Message:   vr.Message,
			Validator: vr.Validator,
			Severity:  fieldset.Severity(vr.Severity),
		})
	}

	return decl, nil
}

// evalLiteral evaluates an optional attribute. Absent attributes yield nil.
func evalLiteral(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return ctyToNative(val)
}

// ctyToNative converts a cty.Value into plain Go values: string, float64,
// bool, []any and map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
