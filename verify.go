package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// VerifySweep is the ordered set of prefix table sizes the verifier rebuilds.
func VerifySweep() []int {
	sweep := []int{0}
	for k := 3; k <= 13; k++ {
		sweep = append(sweep, k)
	}
	return sweep
}

// VerifyConfiguration is the single query set held fixed while everything else varies.
func VerifyConfiguration() QueryConfiguration {
	return QueryConfiguration{Strategy: StrategyExactMatch, Queries: 1000000, MinLength: 5, MaxLength: 50}
}

// Finding is a mismatch between two consecutive verification runs.
type Finding struct {
	Preftab         int
	Mode            QueryMode
	PreviousPreftab int
	PreviousMode    QueryMode
	Diff            string
}

// Verifier checks that search results do not depend on the query mode or the prefix table size.
type Verifier struct {
	experiment *Experiment
}

func NewVerifier(experiment *Experiment) *Verifier {
	return &Verifier{experiment: experiment}
}

// Verify runs the fixed query set against every (k, mode) pair and diffs each run's
// matches with the run before it. Mismatches are returned and logged, not raised.
func (v *Verifier) Verify(ctx context.Context, reference string) ([]Finding, error) {
	reference, err := filepath.Abs(v.experiment.Paths().Reference(reference))
	if err != nil {
		return nil, err
	}
	queryFile, err := v.experiment.BuildQueries(ctx, reference, VerifyConfiguration())
	if err != nil {
		return nil, err
	}

	type previousRun struct {
		path    string
		preftab int
		mode    QueryMode
	}
	var prev *previousRun
	findings := make([]Finding, 0)
	for _, k := range VerifySweep() {
		index, _, err := v.experiment.BuildIndex(ctx, reference, k)
		if err != nil {
			return nil, err
		}
		for _, mode := range QueryModes() {
			current := v.experiment.Paths().MatchOutput(reference, mode, k)
			if _, err := v.experiment.RunQueries(ctx, index, queryFile, mode, current); err != nil {
				return nil, err
			}
			if prev != nil {
				Logger.Infof("running diff with output from query mode %v and preftab %v", mode, k)
				diff, err := DiffFiles(prev.path, current)
				if err != nil {
					return nil, err
				}
				if diff != "" {
					Logger.Errorf("found diff between %v/%v and %v/%v:\n%v", prev.mode, prev.preftab, mode, k, diff)
					findings = append(findings, Finding{
						Preftab:         k,
						Mode:            mode,
						PreviousPreftab: prev.preftab,
						PreviousMode:    prev.mode,
						Diff:            diff,
					})
				} else {
					Logger.Infof("texts match")
				}
			}
			prev = &previousRun{path: current, preftab: k, mode: mode}
		}
	}
	return findings, nil
}

// DiffFiles returns a unified diff of two text files, or "" when they are identical.
func DiffFiles(a, b string) (string, error) {
	left, err := os.ReadFile(a)
	if err != nil {
		return "", fmt.Errorf("failed to read %v: %w", a, err)
	}
	right, err := os.ReadFile(b)
	if err != nil {
		return "", fmt.Errorf("failed to read %v: %w", b, err)
	}
	if string(left) == string(right) {
		return "", nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(left)),
		B:        difflib.SplitLines(string(right)),
		FromFile: a,
		ToFile:   b,
		Context:  1,
	})
	if err != nil {
		return "", err
	}
	if diff == "" {
		// Only line endings differ; difflib treats those as equal lines.
		diff = fmt.Sprintf("--- %v\n+++ %v\n(files differ in line endings)\n", a, b)
	}
	return diff, nil
}
