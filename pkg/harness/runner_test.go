package harness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dockplate/pkg/errors"
)

func TestExecRunner(t *testing.T) {
	r := NewExecRunner()

	out, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo $GREETING; echo oops >&2"}, Env: map[string]string{"GREETING": "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.Stdout)
	assert.Equal(t, "oops\n", out.Stderr)
	assert.Equal(t, "hello\noops", out.Combined())

	out, err = r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})
	require.Error(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBuild))
	assert.Contains(t, err.Error(), "exit=3")

	_, err = r.Run(context.Background(), Command{Name: "sleep", Args: []string{"5"}, Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")

	_, err = r.Run(context.Background(), Command{Name: "definitely-not-a-binary-xyz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run command")
}

func TestTail(t *testing.T) {
	assert.Equal(t, "a\nb", tail("a\nb\n", 5))
	assert.Equal(t, "... (2 lines omitted)\nc\nd", tail("a\nb\nc\nd", 2))
}
