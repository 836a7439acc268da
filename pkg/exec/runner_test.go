// Test Type: Integration Test
// Description: Runs real processes through the command runner

package exec

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRealRunner_CapturesOutput(t *testing.T) {
	requireShell(t)

	result, err := NewRealRunner().Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2"}, RunOpts{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "err\n", result.Stderr)
}

func TestRealRunner_NonZeroExitIsNotAnError(t *testing.T) {
	requireShell(t)

	result, err := NewRealRunner().Run(context.Background(), "sh", []string{"-c", "exit 3"}, RunOpts{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

func TestRealRunner_DirAndEnv(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	result, err := NewRealRunner().Run(context.Background(), "sh", []string{"-c", "pwd; echo $GST_PROBE"}, RunOpts{
		Dir: dir,
		Env: map[string]string{"GST_PROBE": "probe-value"},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "probe-value")
}

func TestRealRunner_MissingBinary(t *testing.T) {
	_, err := NewRealRunner().Run(context.Background(), "gst-binary-that-does-not-exist", nil, RunOpts{})
	assert.Error(t, err)
}
