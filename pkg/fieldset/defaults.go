package fieldset

// ComputeDefault returns the fallback value for an unset field.
// A declared default is returned as is; otherwise the type decides. Structured
// and collection types get no synthetic default. Form state is never consulted,
// so the result holds for the lifetime of the declaration set.
func ComputeDefault(decl *Declaration) (any, bool) {
	if decl == nil {
		return nil, false
	}
	if decl.Default != nil {
		return decl.Default, true
	}

	switch decl.Type {
	case TypeString, TypeText, TypeCode, TypeExpression, TypeColor, TypeDateTime, TypeHidden:
		return "", true
	case TypeNumber:
		return float64(0), true
	case TypeBoolean:
		return false, true
	case TypeSelect, TypeMultiSelect, TypeOptions:
		return []any{}, true
	default:
		return nil, false
	}
}

// IsKnownType reports whether t is one of KnownTypes.
func IsKnownType(t PropertyType) bool {
	for _, known := range KnownTypes {
		if known == t {
			return true
		}
	}
	return false
}
