// Test Type: Unit Test
// Description: Tests for the shared test helpers

package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infraguys/genesis-templates/pkg/exec"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
)

func TestWriteTreeAndListFiles(t *testing.T) {
	fsys := filesystem.NewMemory()
	WriteTree(t, fsys, map[string]string{
		"/root/b/c.txt": "c",
		"/root/a.txt":   "a",
	})

	assert.Equal(t, []string{"/root/a.txt", "/root/b/c.txt"}, ListFiles(t, fsys, "/root"))
	assert.Equal(t, "c", ReadString(t, fsys, "/root/b/c.txt"))
	assert.Nil(t, ListFiles(t, fsys, "/missing"))
}

func TestStubRunner(t *testing.T) {
	r := NewStubRunner()
	r.On("status --porcelain", exec.CmdResult{Stdout: "?? x\n"})

	res, err := r.Run(context.Background(), "git", []string{"status", "--porcelain"}, exec.RunOpts{Dir: "/repo"})
	require.NoError(t, err)
	assert.Equal(t, "?? x\n", res.Stdout)

	res, err = r.Run(context.Background(), "git", []string{"push"}, exec.RunOpts{})
	require.NoError(t, err)
	assert.Equal(t, 127, res.ExitCode)

	assert.Equal(t, []string{"status --porcelain", "push"}, r.Commands())
	assert.Equal(t, "/repo", r.Calls[0].Dir)
}
