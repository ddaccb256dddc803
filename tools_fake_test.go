package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	fakeBuildOutput = "Constructing the suffix array took 1.250s\n" +
		"The resulting file has size: 4641652 bytes or ~ 4 MiB\n"
	fakeQueryOutput = "Took 0.003ms to find matches in 100000 queries\n"
)

// fakeTools stands in for buildsa, buildquery and querysa.
type fakeTools struct {
	calls [][]string
	// fail returns a non-nil error to make the matching call fail.
	fail func(tool string, args []string) error
	// matches produces the querysa match output for an index and mode.
	matches func(index string, mode QueryMode) string
}

func (f *fakeTools) Invoke(_ context.Context, command string, args ...string) (string, error) {
	tool := filepath.Base(command)
	f.calls = append(f.calls, append([]string{tool}, args...))
	if f.fail != nil {
		if err := f.fail(tool, args); err != nil {
			return "", err
		}
	}
	switch tool {
	case "buildsa":
		if len(args) > 2 {
			return "Constructing the suffix array took 1.250s\n" +
				"Building prefix table with " + strings.TrimPrefix(args[2], "--preftab=") + "\n" +
				"Constructing the prefix table took 3.5ms\n" +
				"The resulting file has size: 4641652 bytes or ~ 4 MiB\n", nil
		}
		return fakeBuildOutput, nil
	case "buildquery":
		return "", os.WriteFile(args[1], []byte(">query-0\nACGT\n"), 0o644)
	case "querysa":
		if args[3] == "--quiet" {
			return fakeQueryOutput, nil
		}
		content := "query-0, 1, 42\n"
		if f.matches != nil {
			content = f.matches(args[0], QueryMode(args[2]))
		}
		return fakeQueryOutput, os.WriteFile(args[3], []byte(content), 0o644)
	}
	return "", fmt.Errorf("unknown tool %v", command)
}

func (f *fakeTools) callsOf(tool string) [][]string {
	calls := make([][]string, 0)
	for _, call := range f.calls {
		if call[0] == tool {
			calls = append(calls, call[1:])
		}
	}
	return calls
}

// testConfig lays out a harness workspace in a temporary directory with a small reference.
func testConfig(t *testing.T, runs int) (Config, string) {
	t.Helper()
	root := t.TempDir()
	config := DefaultConfig(root)
	config.Runs = runs
	config.Verbose = false
	for _, dir := range []string{config.SavesDir, config.QueriesDir, config.ReferencesDir, config.RunsDir, config.ScratchDir} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	reference := filepath.Join(config.ReferencesDir, "ecoli.fasta")
	require.NoError(t, os.WriteFile(reference, []byte(">ecoli\nACGTACGTACGT\nACGTAC\n"), 0o644))
	return config, reference
}
