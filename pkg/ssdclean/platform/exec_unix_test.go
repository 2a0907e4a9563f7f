//go:build !windows

package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	t.Parallel()

	r := ExecRunner{}
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		res, err := r.Run(ctx, "sh", "-c", "echo cleaned")
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "cleaned\n", res.Output)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()
		res, err := r.Run(ctx, "sh", "-c", "echo nope >&2; exit 3")
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr), "want *ExitError, got %v", err)
		assert.Equal(t, 3, exitErr.Code)
		assert.Equal(t, 3, res.ExitCode)
		assert.Contains(t, res.Output, "nope")
	})

	t.Run("missing binary", func(t *testing.T) {
		t.Parallel()
		res, err := r.Run(ctx, "definitely-not-a-real-tool-ssdclean")
		require.Error(t, err)
		var exitErr *ExitError
		assert.False(t, errors.As(err, &exitErr))
		assert.Equal(t, -1, res.ExitCode)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		_, err := ExecRunner{Timeout: 50 * time.Millisecond}.Run(ctx, "sleep", "5")
		require.Error(t, err)
	})

	t.Run("shell through Exec", func(t *testing.T) {
		t.Parallel()
		res, err := Exec(ctx, r, NativeCommands().Shell(`printf '%s' "a b"`))
		require.NoError(t, err)
		assert.Equal(t, "a b", res.Output)
	})
}
