package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// EnsureTools builds the external tools with cargo when any binary is missing
// and a crate directory is configured.
func EnsureTools(ctx context.Context, config Config) error {
	missing := config.MissingTools()
	if len(missing) == 0 {
		Logger.Debugf("tool binaries already exist")
		return nil
	}
	if config.CargoDir == "" {
		return fmt.Errorf("%w: tools %v are missing and no cargo directory is set", ErrInvalidConfiguration, missing)
	}
	Logger.Infof("build tools %v at %v", missing, config.CargoDir)
	cmd := exec.CommandContext(ctx, "cargo", "build", "--release")
	cmd.Dir = config.CargoDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build tools: %w", err)
	}
	return nil
}
