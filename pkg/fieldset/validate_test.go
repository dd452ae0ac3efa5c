package fieldset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("required fails on absent, nil and empty text", func(t *testing.T) {
		decl := &Declaration{Name: "token", Validation: []ValidationRule{{Kind: KindRequired, Message: "Token is required"}}}
		for _, value := range []any{nil, ""} {
			msg, _, err := Validate(ctx, decl, value, FormState{})
			require.NoError(t, err)
			assert.Equal(t, "Token is required", msg)
		}
		msg, _, err := Validate(ctx, decl, []any{}, FormState{})
		require.NoError(t, err)
		assert.Empty(t, msg, "an empty sequence satisfies required")
	})

	t.Run("required flag acts as a leading rule", func(t *testing.T) {
		decl := &Declaration{Name: "apiKey", DisplayName: "API Key", Required: true}
		msg, _, err := Validate(ctx, decl, nil, FormState{})
		require.NoError(t, err)
		assert.Equal(t, "API Key is required", msg)
	})

	t.Run("short-circuits at first failure", func(t *testing.T) {
		decl := &Declaration{
			Name: "slug",
			Validation: []ValidationRule{
				{Kind: KindRequired, Message: "required"},
				{Kind: KindPattern, Value: `^[a-z-]+$`, Message: "lowercase letters and dashes only"},
				{Kind: KindMaxLength, Value: 3, Message: "too long"},
			},
		}
		msg, _, err := Validate(ctx, decl, "Not A Slug", FormState{})
		require.NoError(t, err)
		assert.Equal(t, "lowercase letters and dashes only", msg)
	})

	t.Run("length rules count characters and skip non-text", func(t *testing.T) {
		decl := &Declaration{
			Name: "name",
			Validation: []ValidationRule{
				{Kind: KindMinLength, Value: float64(2)},
				{Kind: KindMaxLength, Value: 4},
			},
		}
		cases := map[any]string{
			"a":     "name must be at least 2 characters",
			"héé":   "",
			"abcde": "name must be at most 4 characters",
			42:      "",
			true:    "",
		}
		for value, want := range cases {
			msg, _, err := Validate(ctx, decl, value, FormState{})
			require.NoError(t, err)
			assert.Equal(t, want, msg, "value %v", value)
		}
	})

	t.Run("pattern applies to text only and fails open on bad patterns", func(t *testing.T) {
		decl := &Declaration{Name: "n", Validation: []ValidationRule{{Kind: KindPattern, Value: `^\d+$`}}}
		msg, _, _ := Validate(ctx, decl, "12a", FormState{})
		assert.Equal(t, "n has an invalid format", msg)
		msg, _, _ = Validate(ctx, decl, 12, FormState{})
		assert.Empty(t, msg)

		bad := &Declaration{Name: "n", Validation: []ValidationRule{{Kind: KindPattern, Value: `(`}}}
		msg, _, _ = Validate(ctx, bad, "anything", FormState{})
		assert.Empty(t, msg)
	})

	t.Run("custom rule sees the whole form state", func(t *testing.T) {
		decl := &Declaration{
			Name: "confirmPassword",
			Validation: []ValidationRule{{
				Kind:    KindCustom,
				Message: "Passwords do not match",
				Func: func(_ context.Context, value any, state FormState) (bool, error) {
					return value == state["password"], nil
				},
			}},
		}
		msg, _, err := Validate(ctx, decl, "abc", FormState{"password": "abd"})
		require.NoError(t, err)
		assert.Equal(t, "Passwords do not match", msg)

		msg, _, err = Validate(ctx, decl, "abc", FormState{"password": "abc"})
		require.NoError(t, err)
		assert.Empty(t, msg)
	})

	t.Run("custom rule error propagates", func(t *testing.T) {
		boom := errors.New("lookup service unavailable")
		decl := &Declaration{
			Name: "username",
			Validation: []ValidationRule{{
				Kind: KindCustom,
				Func: func(context.Context, any, FormState) (bool, error) { return false, boom },
			}},
		}
		_, _, err := Validate(ctx, decl, "bob", FormState{})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)

		var verr *ValidatorError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "username", verr.Field)
	})

	t.Run("custom rule without predicate passes", func(t *testing.T) {
		decl := &Declaration{Name: "x", Validation: []ValidationRule{{Kind: KindCustom, Validator: "missing"}}}
		msg, _, err := Validate(ctx, decl, "v", FormState{})
		require.NoError(t, err)
		assert.Empty(t, msg)
	})

	t.Run("warnings do not stop the chain", func(t *testing.T) {
		decl := &Declaration{
			Name: "url",
			Validation: []ValidationRule{
				{Kind: KindPattern, Value: `^https://`, Severity: SeverityWarning, Message: "Prefer https"},
				{Kind: KindMinLength, Value: 12, Message: "URL too short"},
			},
		}
		msg, warning, err := Validate(ctx, decl, "http://x", FormState{})
		require.NoError(t, err)
		assert.Equal(t, "URL too short", msg)
		assert.Equal(t, "Prefer https", warning)
	})

	t.Run("unknown rule kind passes", func(t *testing.T) {
		decl := &Declaration{Name: "x", Validation: []ValidationRule{{Kind: "email"}}}
		msg, _, err := Validate(ctx, decl, "nope", FormState{})
		require.NoError(t, err)
		assert.Empty(t, msg)
	})
}

func TestComputeDefault(t *testing.T) {
	tests := []struct {
		decl   *Declaration
		want   any
		wantOK bool
	}{
		{&Declaration{Type: TypeSelect, Default: "none"}, "none", true},
		{&Declaration{Type: TypeNumber, Default: 5}, 5, true},
		{&Declaration{Type: TypeBoolean, Default: false}, false, true},
		{&Declaration{Type: TypeString}, "", true},
		{&Declaration{Type: TypeText}, "", true},
		{&Declaration{Type: TypeNumber}, float64(0), true},
		{&Declaration{Type: TypeBoolean}, false, true},
		{&Declaration{Type: TypeSelect}, []any{}, true},
		{&Declaration{Type: TypeMultiSelect}, []any{}, true},
		{&Declaration{Type: TypeCollection}, nil, false},
		{&Declaration{Type: TypeFixedCollection}, nil, false},
		{&Declaration{Type: TypeJSON}, nil, false},
		{&Declaration{Type: "mystery"}, nil, false},
		{nil, nil, false},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.decl != nil {
			name = string(tt.decl.Type)
		}
		t.Run(name, func(t *testing.T) {
			got, ok := ComputeDefault(tt.decl)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
