package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessInvokerCapturesStdout(t *testing.T) {
	invoker := &ProcessInvoker{Verbose: true}
	output, err := invoker.Invoke(context.Background(), "sh", "-c", "echo 'Took 1.5ms to find matches in 3 queries'; echo noise >&2")
	require.Nil(t, err)
	require.Equal(t, "Took 1.5ms to find matches in 3 queries\n", output)
}

func TestProcessInvokerExitCode(t *testing.T) {
	invoker := &ProcessInvoker{}
	_, err := invoker.Invoke(context.Background(), "sh", "-c", "echo partial; echo 'index file is corrupt' >&2; exit 3")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 3, exitErr.Code)
	require.Equal(t, "index file is corrupt\n", exitErr.Stderr)
	require.Equal(t, "sh", exitErr.Command)
	require.Equal(t, 3, exitCode(err))
}

func TestProcessInvokerMissingBinary(t *testing.T) {
	invoker := &ProcessInvoker{}
	_, err := invoker.Invoke(context.Background(), "/nonexistent/buildsa")
	require.Error(t, err)
	var exitErr *ExitError
	require.False(t, errors.As(err, &exitErr))
	require.Equal(t, 1, exitCode(err))
}

func TestProcessInvokerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&ProcessInvoker{}).Invoke(ctx, "sh", "-c", "sleep 5")
	require.Error(t, err)
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, exitCode(nil))
	require.Equal(t, 1, exitCode(errors.New("boom")))
	require.Equal(t, 1, exitCode(&ExitError{Code: -1}))
}
