package main

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Benchmark repeats a timed workload. The timing itself is reported by the tool.
type Benchmark struct {
	Runs        int
	ClearCaches bool
}

func clearCaches(ctx context.Context) error {
	switch runtime.GOOS {
	case "linux":
		if err := exec.CommandContext(ctx, "sync").Run(); err != nil {
			return err
		}
		if err := exec.CommandContext(ctx, "sh", "-c", "echo 3 | sudo tee /proc/sys/vm/drop_caches").Run(); err != nil {
			return err
		}
		return nil
	case "darwin":
		if err := exec.CommandContext(ctx, "sync").Run(); err != nil {
			return err
		}
		if err := exec.CommandContext(ctx, "purge").Run(); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("unable to clear caches for platform '%v'", runtime.GOOS)
}

func (b *Benchmark) clearCachesIfNeeded(ctx context.Context) {
	if !b.ClearCaches {
		return
	}
	Logger.Debug("clear caches")
	if err := clearCaches(ctx); err != nil {
		Logger.Warnf("failed to clear fs caches: %v", err)
	}
}

// Repeat runs the workload b.Runs times and collects every output.
// The first failure stops the repetition.
func (b *Benchmark) Repeat(ctx context.Context, name string, run func(context.Context) (string, error)) ([]string, error) {
	outputs := make([]string, 0, b.Runs)
	for i := 0; i < b.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.clearCachesIfNeeded(ctx)
		Logger.Debugf("running workload #%v/%v %v", i+1, b.Runs, name)
		output, err := run(ctx)
		if err != nil {
			return nil, fmt.Errorf("run #%v of %v failed: %w", i+1, name, err)
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}
