// Test Type: Unit Test
// Description: Tests for tagged parameter values and answer replacement

package settings_test

import (
	"testing"

	"github.com/infraguys/genesis-templates/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestValueReplace(t *testing.T) {
	num, err := settings.NumberValue("8080")
	require.NoError(t, err)

	tests := []struct {
		name     string
		current  settings.Value
		answer   string
		wantKind settings.Kind
		wantText string
	}{
		{"blank_keeps_string", settings.StringValue("Ada"), "", settings.KindString, "Ada"},
		{"string_overridden", settings.StringValue("Ada"), "Grace", settings.KindString, "Grace"},
		{"number_stays_number", num, "9090", settings.KindNumber, "9090"},
		{"number_becomes_string", num, "auto", settings.KindString, "auto"},
		{"bool_stays_bool", settings.BoolValue(false), "true", settings.KindBool, "true"},
		{"bool_becomes_string", settings.BoolValue(false), "maybe", settings.KindString, "maybe"},
		{"blank_keeps_number", num, "", settings.KindNumber, "8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.current.Replace(tt.answer)
			assert.Equal(t, tt.wantKind, got.Kind())
			assert.Equal(t, tt.wantText, got.String())
		})
	}
}

func TestNumberValueRejectsGarbage(t *testing.T) {
	for _, literal := range []string{"", "abc", "1e", "0x10", " 1"} {
		_, err := settings.NumberValue(literal)
		assert.Error(t, err, literal)
	}
}

func TestValueMarshalJSON(t *testing.T) {
	num, err := settings.NumberValue("1.0")
	require.NoError(t, err)

	for _, tc := range []struct {
		v    settings.Value
		want string
	}{
		{settings.StringValue(`say "hi"`), `"say \"hi\""`},
		{settings.BoolValue(true), `true`},
		{num, `1.0`},
	} {
		b, err := tc.v.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(b))
	}
}

func TestValueCtyValue(t *testing.T) {
	num, err := settings.NumberValue("42")
	require.NoError(t, err)

	v, err := num.CtyValue()
	require.NoError(t, err)
	assert.True(t, v.Type().Equals(cty.Number))

	v, err = settings.BoolValue(true).CtyValue()
	require.NoError(t, err)
	assert.True(t, v.True())

	v, err = settings.StringValue("Ada").CtyValue()
	require.NoError(t, err)
	assert.Equal(t, "Ada", v.AsString())
}
