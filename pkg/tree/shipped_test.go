// Test Type: Integration Test
// Description: Renders the template shipped in templates/ with its default settings

package tree_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/functions"
	"github.com/infraguys/genesis-templates/pkg/render"
	"github.com/infraguys/genesis-templates/pkg/settings"
	"github.com/infraguys/genesis-templates/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippedTemplateRenders(t *testing.T) {
	fsys := filesystem.NewOS()
	clock := func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	resolver := settings.NewResolver(fsys, functions.NewRegistry(clock), &settings.ScriptedPrompt{})

	doc, err := resolver.Load(filepath.Join("..", "..", "templates", "service.settings.json"))
	require.NoError(t, err)
	b, err := resolver.Initialize(doc)
	require.NoError(t, err)

	target := t.TempDir()
	result, err := tree.New(fsys, render.NewTokenRenderer()).Render(doc.Descriptor.SourcePath, target, b)
	require.NoError(t, err)

	assert.Contains(t, result.Directories, filepath.Join(target, "example", "api"))
	assert.Contains(t, result.Files, filepath.Join(target, "example", "cmd", "user_api.py"))

	data, err := fsys.ReadFile(filepath.Join(target, "example", "cmd", "user_api.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Copyright 2025 Genesis Team.")
	assert.Contains(t, string(data), "from example.api import app")
	assert.Contains(t, string(data), "default=8080)")
	assert.NotContains(t, string(data), "{{")
}
