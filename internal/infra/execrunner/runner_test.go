package execrunner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("sh not available: %v", err)
	}
}

func TestRunCapturesOutput(t *testing.T) {
	requireShell(t)

	res, err := New().Run(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestRunNonZeroExit(t *testing.T) {
	requireShell(t)

	res, err := New().Run(context.Background(), domain.Command{
		Name: "sh",
		Args: []string{"-c", "echo broken >&2; exit 3"},
	})
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, 3, domain.ExitCode(err))
	assert.True(t, domain.IsKind(err, domain.KindExecution))

	var ce *domain.CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "sh", ce.Name)
	assert.Equal(t, "broken", ce.Stderr)
}

func TestRunEnvStdinAndDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	res, err := New().Run(context.Background(), domain.Command{
		Name:  "sh",
		Args:  []string{"-c", `printf '%s|' "$DEVKIT_TEST"; pwd; cat`},
		Dir:   dir,
		Env:   map[string]string{"DEVKIT_TEST": "value"},
		Stdin: "from stdin",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Stdout, "value|"))
	assert.Contains(t, res.Stdout, "from stdin")
}

func TestRunStreamsToConsole(t *testing.T) {
	requireShell(t)

	var stdout, stderr bytes.Buffer
	r := New(WithConsole(&stdout, &stderr))

	res, err := r.Run(context.Background(), domain.Command{
		Name:   "sh",
		Args:   []string{"-c", "echo visible; echo warn >&2"},
		Stream: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "visible\n", res.Stdout)
	assert.Equal(t, "visible\n", stdout.String())
	assert.Equal(t, "warn\n", stderr.String())

	stdout.Reset()
	_, err = r.Run(context.Background(), domain.Command{Name: "sh", Args: []string{"-c", "echo hidden"}})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestRunMissingProgram(t *testing.T) {
	_, err := New().Run(context.Background(), domain.Command{Name: "devkit-definitely-missing-program"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	assert.Equal(t, -1, domain.ExitCode(err))
}

func TestRunCancelledContext(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skipf("sleep not available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New().Run(ctx, domain.Command{Name: "sleep", Args: []string{"5"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunEmptyCommand(t *testing.T) {
	_, err := New().Run(context.Background(), domain.Command{})
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig))
}
