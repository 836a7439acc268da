// Test Type: Unit Test
// Description: Tests for the repository gateway using a stubbed command runner

package repository

import (
	"context"
	"testing"

	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/exec"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectory(t *testing.T) {
	fsys := filesystem.NewMemory()
	g := New("/target/project", fsys, testutil.NewStubRunner(), Options{})

	require.NoError(t, g.EnsureDirectory())
	info, err := fsys.Stat("/target/project")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, g.EnsureDirectory())
}

func TestEnsureDirectoryRejectsFile(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/target", []byte("x"), 0644))

	err := New("/target", fsys, testutil.NewStubRunner(), Options{}).EnsureDirectory()
	require.Error(t, err)
	assert.Equal(t, errors.ErrNotADirectory, errors.GetErrorCode(err))
}

func TestInitialize(t *testing.T) {
	fsys := filesystem.NewMemory()
	runner := testutil.NewStubRunner()
	runner.On("init", exec.CmdResult{})
	g := New("/target", fsys, runner, Options{Binary: "/usr/bin/git"})

	assert.False(t, g.IsInitialized())
	require.NoError(t, g.Initialize(context.Background()))
	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "/usr/bin/git", runner.Calls[0].Name)
	assert.Equal(t, "/target", runner.Calls[0].Dir)

	// git init would have created the metadata directory.
	require.NoError(t, fsys.MkdirAll("/target/.git", 0755))
	assert.True(t, g.IsInitialized())
	require.NoError(t, g.Initialize(context.Background()))
	assert.Len(t, runner.Calls, 1)
}

func TestInitializeFailure(t *testing.T) {
	runner := testutil.NewStubRunner()
	runner.On("init", exec.CmdResult{ExitCode: 128, Stderr: "fatal: cannot mkdir"})

	err := New("/target", filesystem.NewMemory(), runner, Options{}).Initialize(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrRepository, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "fatal: cannot mkdir")
}

func TestHasUncommittedChanges(t *testing.T) {
	tests := []struct {
		name      string
		result    exec.CmdResult
		wantDirty bool
		wantErr   bool
	}{
		{"clean", exec.CmdResult{Stdout: ""}, false, false},
		{"untracked", exec.CmdResult{Stdout: "?? notes.txt\n"}, true, false},
		{"modified", exec.CmdResult{Stdout: " M main.go\n"}, true, false},
		{"corrupt", exec.CmdResult{ExitCode: 128, Stderr: "fatal: bad object HEAD"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := testutil.NewStubRunner()
			runner.On("status --porcelain --untracked-files=all", tt.result)
			g := New("/target", filesystem.NewMemory(), runner, Options{})

			dirty, err := g.HasUncommittedChanges(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrRepository))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDirty, dirty)
		})
	}
}

func TestCommit(t *testing.T) {
	runner := testutil.NewStubRunner()
	runner.On("diff --cached --quiet", exec.CmdResult{ExitCode: 1})
	runner.On("commit --quiet -m "+DefaultCommitMessage, exec.CmdResult{})
	g := New("/target", filesystem.NewMemory(), runner, Options{AuthorName: "Ada", AuthorEmail: "ada@example.com"})

	require.NoError(t, g.Commit(context.Background(), "  "))
	assert.Equal(t, []string{
		"diff --cached --quiet",
		"commit --quiet -m " + DefaultCommitMessage,
	}, runner.Commands())
	assert.Equal(t, "Ada", runner.Calls[1].Env["GIT_COMMITTER_NAME"])
	assert.Equal(t, "ada@example.com", runner.Calls[1].Env["GIT_AUTHOR_EMAIL"])
}

func TestCommitNothingStaged(t *testing.T) {
	runner := testutil.NewStubRunner()
	runner.On("diff --cached --quiet", exec.CmdResult{ExitCode: 0})
	g := New("/target", filesystem.NewMemory(), runner, Options{})

	err := g.Commit(context.Background(), "message")
	require.Error(t, err)
	assert.Equal(t, errors.ErrNothingToCommit, errors.GetErrorCode(err))
	assert.Len(t, runner.Calls, 1)
}

func TestState(t *testing.T) {
	fsys := filesystem.NewMemory()
	runner := testutil.NewStubRunner()
	runner.On("status --porcelain --untracked-files=all", exec.CmdResult{Stdout: "?? a\n"})
	g := New("/target", fsys, runner, Options{})

	state, err := g.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RepositoryState{Path: "/target"}, state)
	assert.Empty(t, runner.Calls)

	require.NoError(t, fsys.MkdirAll("/target/.git", 0755))
	state, err = g.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RepositoryState{Path: "/target", Initialized: true, Dirty: true}, state)
}
