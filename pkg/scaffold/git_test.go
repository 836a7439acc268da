// Test Type: Integration Test
// Description: Generates a project end to end against the real git binary

package scaffold_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/infraguys/genesis-templates/pkg/config"
	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/exec"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/repository"
	"github.com/infraguys/genesis-templates/pkg/scaffold"
	"github.com/infraguys/genesis-templates/pkg/settings"
	"github.com/infraguys/genesis-templates/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adaProject(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{
  "template_info": {"name": "x", "version": "1.0", "path": "./tpl"},
  "author": {"name": "Ada"}
}`), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tpl"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tpl", "{{ author.name }}.txt"), []byte("Hello {{ author.name }}"), 0644))

	cfg := config.Default()
	cfg.TemplateSettings = filepath.Join(dir, "settings.json")
	cfg.TargetDirectory = filepath.Join(dir, "target")
	cfg.Git.AuthorName = "Test"
	cfg.Git.AuthorEmail = "test@example.com"
	return cfg
}

func TestRunWithGit(t *testing.T) {
	testutil.RequireGit(t)
	ctx := context.Background()
	cfg := adaProject(t)
	fsys := filesystem.NewOS()
	runner := exec.NewRealRunner()

	_, err := scaffold.New(cfg, scaffold.Options{FS: fsys, Runner: runner, Prompt: &settings.ScriptedPrompt{}}).Run(ctx)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.TargetDirectory, "Ada.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada", string(data))

	res, err := runner.Run(ctx, "git", []string{"log", "--format=%s"}, exec.RunOpts{Dir: cfg.TargetDirectory})
	require.NoError(t, err)
	assert.Equal(t, "Initialize project settings\n", res.Stdout)

	res, err = runner.Run(ctx, "git", []string{"status", "--porcelain"}, exec.RunOpts{Dir: cfg.TargetDirectory})
	require.NoError(t, err)
	assert.Equal(t, "?? Ada.txt\n", res.Stdout)
}

func TestRunWithGitDirtyTarget(t *testing.T) {
	testutil.RequireGit(t)
	ctx := context.Background()
	cfg := adaProject(t)
	fsys := filesystem.NewOS()
	runner := exec.NewRealRunner()

	gateway := repository.New(cfg.TargetDirectory, fsys, runner, repository.Options{})
	require.NoError(t, gateway.Initialize(ctx))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TargetDirectory, "notes.txt"), []byte("wip"), 0644))

	_, err := scaffold.New(cfg, scaffold.Options{FS: fsys, Runner: runner, Prompt: &settings.ScriptedPrompt{}}).Run(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.ErrRepositoryDirty, errors.GetErrorCode(err))

	_, err = os.Stat(filepath.Join(cfg.TargetDirectory, "Ada.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(cfg.TargetDirectory, settings.ProjectSettingsFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestRunWithGitTwiceFailsOnUnchangedSettings(t *testing.T) {
	testutil.RequireGit(t)
	ctx := context.Background()
	cfg := adaProject(t)
	cfg.Render.CommitRendered = true
	fsys := filesystem.NewOS()
	runner := exec.NewRealRunner()

	report, err := scaffold.New(cfg, scaffold.Options{FS: fsys, Runner: runner, Prompt: &settings.ScriptedPrompt{}}).Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.SettingsCommit)
	assert.True(t, report.RenderedCommit)

	report, err = scaffold.New(cfg, scaffold.Options{FS: fsys, Runner: runner, Prompt: &settings.ScriptedPrompt{}}).Run(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.ErrNothingToCommit, errors.GetErrorCode(err))
	require.NotNil(t, report)
	assert.False(t, report.SettingsCommit)
	assert.False(t, report.RenderedCommit)

	res, err := runner.Run(ctx, "git", []string{"log", "--format=%s"}, exec.RunOpts{Dir: cfg.TargetDirectory})
	require.NoError(t, err)
	assert.Equal(t, "Render project template\nInitialize project settings\n", res.Stdout)
}
