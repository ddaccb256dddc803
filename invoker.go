package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExitError is returned when an external tool exits with a non-zero code.
// A failing tool invalidates the whole sweep, so callers propagate it up to main.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %v exited with code %v: %v", e.Command, e.Code, strings.TrimSpace(e.Stderr))
}

type ProcessInvoker struct {
	Verbose bool
}

func (p *ProcessInvoker) Invoke(ctx context.Context, command string, args ...string) (string, error) {
	Logger.Debugf("invoke %v %v", command, args)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return "", &ExitError{Command: command, Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return "", fmt.Errorf("failed to run %v: %w", command, err)
	}
	output := stdout.String()
	if p.Verbose && output != "" {
		Logger.Info(output)
	}
	return output, nil
}
