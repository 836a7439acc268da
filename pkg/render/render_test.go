// Test Type: Unit Test
// Description: Tests for token substitution in paths and file bodies

package render_test

import (
	"testing"
	"time"

	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/functions"
	"github.com/infraguys/genesis-templates/pkg/render"
	"github.com/infraguys/genesis-templates/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBindings(t *testing.T) settings.Bindings {
	t.Helper()
	port, err := settings.NumberValue("8080")
	require.NoError(t, err)
	version, err := settings.NumberValue("1.0")
	require.NoError(t, err)
	ratio, err := settings.NumberValue("2.50")
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return settings.Bindings{
		Sections: []settings.Section{
			{Name: "author", Parameters: []settings.Parameter{
				{Name: "name", Value: settings.StringValue("Ada")},
			}},
			{Name: "project", Parameters: []settings.Parameter{
				{Name: "package_name", Value: settings.StringValue("billing")},
				{Name: "port", Value: port},
				{Name: "debug", Value: settings.BoolValue(false)},
				{Name: "version", Value: version},
				{Name: "ratio", Value: ratio},
			}},
			{Name: "empty"},
		},
		Functions: functions.NewRegistry(clock).Snapshot(),
	}
}

func TestTokenRenderer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"no_tokens", "plain text ${not} %{touched}", "plain text ${not} %{touched}"},
		{"single_reference", "Hello {{ author.name }}", "Hello Ada"},
		{"tight_reference", "{{author.name}}.txt", "Ada.txt"},
		{"path_segment", "src/{{ project.package_name }}/__init__.py", "src/billing/__init__.py"},
		{"number_and_bool", "port={{ project.port }} debug={{ project.debug }}", "port=8080 debug=false"},
		{"helper_with_prefix", "Copyright {{ functions.year() }} {{ author.name }}", "Copyright 2024 Ada"},
		{"helper_without_prefix", "{{ today() }}", "2024-03-01"},
		{"helper_with_arguments", "{{ upper(author.name) }}", "ADA"},
		{"dollar_before_token", "cost: ${{ project.port }}", "cost: $8080"},
		{"multiline", "a\n{{ author.name }}\nb {{ project.package_name }}\n", "a\nAda\nb billing\n"},
		{"string_literal", `{{ "literal" }}`, "literal"},
		{"number_literal_kept", "version={{ project.version }} ratio={{ project.ratio }}", "version=1.0 ratio=2.50"},
		{"computed_number", "{{ project.ratio * 2 }}", "5"},
	}

	r := render.NewTokenRenderer()
	b := testBindings(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render("test.txt", tt.text, b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenRendererErrors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		token string
		line  int
	}{
		{"unknown_section", "{{ nope.name }}", "nope.name", 1},
		{"unknown_parameter", "ok\n{{ author.surname }}", "author.surname", 2},
		{"unknown_helper", "{{ functions.nothing() }}", "functions.nothing()", 1},
		{"empty_section_lookup", "{{ empty.anything }}", "empty.anything", 1},
		{"syntax_error", "{{ author. }}", "author.", 1},
	}

	r := render.NewTokenRenderer()
	b := testBindings(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render("/tpl/file.txt", tt.text, b)
			require.Error(t, err)
			assert.Equal(t, errors.ErrRenderSubstitution, errors.GetErrorCode(err))
			assert.Contains(t, err.Error(), "/tpl/file.txt")

			details := errors.GetErrorDetails(err)
			assert.Equal(t, "/tpl/file.txt", details["path"])
			assert.Equal(t, tt.token, details["token"])
			assert.Equal(t, tt.line, details["line"])
		})
	}
}

func TestTokenRendererUnterminated(t *testing.T) {
	_, err := render.NewTokenRenderer().Render("a.txt", "Hello {{ author.name", testBindings(t))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRenderSubstitution))
	assert.Contains(t, err.Error(), "unterminated")
}

func TestHelpersAreEvaluatedPerCall(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		return time.Date(2000+calls, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	b := settings.Bindings{Functions: functions.NewRegistry(clock).Snapshot()}

	r := render.NewTokenRenderer()
	first, err := r.Render("a", "{{ year() }}", b)
	require.NoError(t, err)
	second, err := r.Render("b", "{{ year() }}", b)
	require.NoError(t, err)

	assert.Equal(t, "2001", first)
	assert.Equal(t, "2002", second)
}
