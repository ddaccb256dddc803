package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifySweep(t *testing.T) {
	require.Equal(t, []int{0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}, VerifySweep())
	config := VerifyConfiguration()
	require.Nil(t, config.Validate())
	require.Equal(t, 5, config.MinLength)
	require.Equal(t, 50, config.MaxLength)
}

func TestVerifyConsistentResults(t *testing.T) {
	tools := &fakeTools{}
	experiment, config, _ := newTestExperiment(t, 1, tools)

	findings, err := NewVerifier(experiment).Verify(context.Background(), "ecoli.fasta")
	require.Nil(t, err)
	require.Empty(t, findings)

	require.Len(t, tools.callsOf("buildquery"), 1)
	require.Len(t, tools.callsOf("buildsa"), len(VerifySweep()))
	runs := tools.callsOf("querysa")
	require.Len(t, runs, len(VerifySweep())*2)
	outputs := make(map[string]bool)
	for _, run := range runs {
		require.Equal(t, config.ScratchDir, filepath.Dir(run[3]))
		outputs[run[3]] = true
	}
	require.Len(t, outputs, len(runs), "every run writes its own output file")
}

func TestVerifyReportsMismatch(t *testing.T) {
	tools := &fakeTools{
		matches: func(index string, mode QueryMode) string {
			if filepath.Base(index) == "ecoli-preftab-7.bin" && mode == ModeSimpaccel {
				return "query-0, 2, 42, 97\n"
			}
			return "query-0, 1, 42\n"
		},
	}
	experiment, _, _ := newTestExperiment(t, 1, tools)

	findings, err := NewVerifier(experiment).Verify(context.Background(), "ecoli.fasta")
	require.Nil(t, err)
	require.Len(t, findings, 2)

	require.Equal(t, 7, findings[0].Preftab)
	require.Equal(t, ModeSimpaccel, findings[0].Mode)
	require.Equal(t, 7, findings[0].PreviousPreftab)
	require.Equal(t, ModeNaive, findings[0].PreviousMode)
	require.Contains(t, findings[0].Diff, "-query-0, 1, 42")
	require.Contains(t, findings[0].Diff, "+query-0, 2, 42, 97")

	require.Equal(t, 8, findings[1].Preftab)
	require.Equal(t, ModeNaive, findings[1].Mode)
}

func TestVerifyStopsOnToolFailure(t *testing.T) {
	tools := &fakeTools{
		fail: func(tool string, args []string) error {
			if tool == "buildsa" && len(args) > 2 && args[2] == "--preftab=4" {
				return &ExitError{Command: tool, Code: 2}
			}
			return nil
		},
	}
	experiment, _, _ := newTestExperiment(t, 1, tools)

	_, err := NewVerifier(experiment).Verify(context.Background(), "ecoli.fasta")
	require.Equal(t, 2, exitCode(err))
	require.Len(t, tools.callsOf("querysa"), 4)
}

func TestDiffFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	a := write("a.txt", "q1, 0\nq2, 1, 5\nq3, 0\n")
	b := write("b.txt", "q1, 0\nq2, 1, 5\nq3, 0\n")
	c := write("c.txt", "q1, 0\nq2, 1, 6\nq3, 0\n")

	diff, err := DiffFiles(a, b)
	require.Nil(t, err)
	require.Equal(t, "", diff)

	diff, err = DiffFiles(a, c)
	require.Nil(t, err)
	require.True(t, strings.HasPrefix(diff, "--- "+a))
	require.Contains(t, diff, "-q2, 1, 5\n")
	require.Contains(t, diff, "+q2, 1, 6\n")

	_, err = DiffFiles(a, filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}
