package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const catalogueQueries = 100000

// PrefixTableSweep is the ordered set of prefix table sizes a sweep builds; 0 is the baseline without a table.
func PrefixTableSweep() []int {
	return []int{0, 3, 4, 5, 6, 7, 8, 9}
}

// DefaultCatalogue returns a fresh copy of the query files built for every index.
// The broad 3-30 exact-match entry appears twice on purpose: its timings are averaged over both files.
func DefaultCatalogue() []QueryConfiguration {
	return []QueryConfiguration{
		{Strategy: StrategyExactMatch, Queries: catalogueQueries, MinLength: 3, MaxLength: 3},
		{Strategy: StrategyExactMatch, Queries: catalogueQueries, MinLength: 5, MaxLength: 5},
		{Strategy: StrategyExactMatch, Queries: catalogueQueries, MinLength: 8, MaxLength: 8},
		{Strategy: StrategyExactMatch, Queries: catalogueQueries, MinLength: 12, MaxLength: 12},
		{Strategy: StrategyExactMatch, Queries: catalogueQueries, MinLength: 20, MaxLength: 20},
		{Strategy: StrategyExactMatch, Queries: catalogueQueries, MinLength: 30, MaxLength: 30},
		{Strategy: StrategyExactMatch, Queries: catalogueQueries, MinLength: 3, MaxLength: 30},
		{Strategy: StrategyExactMatch, Queries: catalogueQueries, MinLength: 3, MaxLength: 30},
		{Strategy: StrategyPerturb, Queries: catalogueQueries, MinLength: 5, MaxLength: 30},
	}
}

// Experiment drives buildsa, buildquery and querysa through a full parameter sweep.
// It runs one process at a time.
type Experiment struct {
	config    Config
	paths     Paths
	invoker   Invoker
	parser    OutputParser
	benchmark Benchmark
	hostStat  func() SysInfo
	now       func() time.Time
}

func NewExperiment(config Config, invoker Invoker) *Experiment {
	return &Experiment{
		config:    config,
		paths:     NewPaths(config),
		invoker:   invoker,
		parser:    TextParser{},
		benchmark: Benchmark{Runs: config.Runs, ClearCaches: config.ClearCaches},
		hostStat:  HostStat,
		now:       time.Now,
	}
}

func (e *Experiment) Paths() Paths { return e.paths }

// BuildIndex serializes the suffix array of reference with a prefix table of size k.
func (e *Experiment) BuildIndex(ctx context.Context, reference string, k int) (string, string, error) {
	index := e.paths.Index(reference, k)
	args := []string{reference, index}
	if k != 0 {
		args = append(args, fmt.Sprintf("--preftab=%v", k))
	}
	Logger.Infof("build index for %v with preftab %v at %v", filepath.Base(reference), k, index)
	output, err := e.invoker.Invoke(ctx, e.config.BuildSA, args...)
	if err != nil {
		return "", "", fmt.Errorf("failed to build index for preftab %v: %w", k, err)
	}
	return index, output, nil
}

// BuildQueries writes the query file for config; the name alone identifies its content.
func (e *Experiment) BuildQueries(ctx context.Context, reference string, config QueryConfiguration) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}
	queryFile := e.paths.QueryFile(config)
	if e.config.ReuseQueries {
		if _, err := os.Stat(queryFile); err == nil {
			Logger.Debugf("query file %v already exists", queryFile)
			return queryFile, nil
		}
	}
	Logger.Infof("build queries %v", config)
	_, err := e.invoker.Invoke(
		ctx,
		e.config.BuildQuery,
		reference,
		queryFile,
		string(config.Strategy),
		fmt.Sprintf("--queries=%v", config.Queries),
		fmt.Sprintf("--min-length=%v", config.MinLength),
		fmt.Sprintf("--max-length=%v", config.MaxLength),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build queries %v: %w", config, err)
	}
	return queryFile, nil
}

// RunQueries executes queryFile against index. An empty output path runs quietly;
// otherwise the matches are written to output.
func (e *Experiment) RunQueries(ctx context.Context, index, queryFile string, mode QueryMode, output string) (string, error) {
	args := []string{index, queryFile, string(mode)}
	if output == "" {
		args = append(args, "--quiet")
	} else {
		args = append(args, output)
	}
	result, err := e.invoker.Invoke(ctx, e.config.QuerySA, args...)
	if err != nil {
		return "", fmt.Errorf("failed to run %v queries from %v: %w", mode, filepath.Base(queryFile), err)
	}
	return result, nil
}

func (e *Experiment) RunSubExperiment(ctx context.Context, reference string, k int) (RawSubExperiment, error) {
	index, buildOutput, err := e.BuildIndex(ctx, reference, k)
	if err != nil {
		return RawSubExperiment{}, err
	}

	type generated struct {
		path   string
		config QueryConfiguration
	}
	queryFiles := make([]generated, 0)
	for _, config := range DefaultCatalogue() {
		if !config.Reachable(k) {
			Logger.Debugf("skip %v for preftab %v", config, k)
			continue
		}
		queryFile, err := e.BuildQueries(ctx, reference, config)
		if err != nil {
			return RawSubExperiment{}, err
		}
		queryFiles = append(queryFiles, generated{path: queryFile, config: config})
	}

	sub := RawSubExperiment{
		Preftab:     k,
		BuildOutput: buildOutput,
		QueryRuns:   make(map[QueryMode][]RawQueryRun),
	}
	for _, mode := range QueryModes() {
		Logger.Infof("using query mode %v for preftab %v", mode, k)
		runs := make([]RawQueryRun, 0, len(queryFiles)*e.benchmark.Runs)
		for _, queryFile := range queryFiles {
			outputs, err := e.benchmark.Repeat(ctx, queryFile.config.String(), func(ctx context.Context) (string, error) {
				return e.RunQueries(ctx, index, queryFile.path, mode, "")
			})
			if err != nil {
				return RawSubExperiment{}, err
			}
			for _, output := range outputs {
				runs = append(runs, RawQueryRun{QueryFile: queryFile.path, Config: queryFile.config, Output: output})
			}
		}
		sub.QueryRuns[mode] = runs
	}
	return sub, nil
}

// RunExperiment sweeps every prefix table size over one reference and returns the unparsed outputs.
func (e *Experiment) RunExperiment(ctx context.Context, reference string) (RawReport, error) {
	reference, err := filepath.Abs(reference)
	if err != nil {
		return RawReport{}, err
	}
	stat, err := os.Stat(reference)
	if err != nil {
		return RawReport{}, fmt.Errorf("failed to stat reference %v: %w", reference, err)
	}
	report := RawReport{
		RunId:         uuid.NewString(),
		ReferenceName: filepath.Base(reference),
		FileSize:      stat.Size(),
		StartedAt:     e.now(),
		Host:          e.hostStat(),
		Results:       make([]RawSubExperiment, 0),
	}
	Logger.Infof("start experiment %v for %v (%v bytes)", report.RunId, report.ReferenceName, report.FileSize)
	for _, k := range PrefixTableSweep() {
		sub, err := e.RunSubExperiment(ctx, reference, k)
		if err != nil {
			return RawReport{}, err
		}
		report.Results = append(report.Results, sub)
	}
	report.FinishedAt = e.now()
	Logger.Infof("finished experiment %v in %v", report.RunId, report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}

// Run sweeps reference, parses the outputs and writes the report. Nothing is written unless every step succeeds.
func (e *Experiment) Run(ctx context.Context, reference string) (ExperimentReport, string, error) {
	raw, err := e.RunExperiment(ctx, e.paths.Reference(reference))
	if err != nil {
		return ExperimentReport{}, "", err
	}
	report, err := FormatResults(raw, e.parser)
	if err != nil {
		return ExperimentReport{}, "", err
	}
	path := e.paths.Report(reference, e.config.RunSuffix)
	if err := WriteReport(path, report); err != nil {
		return ExperimentReport{}, "", err
	}
	Logger.Infof("wrote report for %v to %v", reference, path)
	return report, path, nil
}

// WriteReport encodes report as indented JSON and renames it into place.
func WriteReport(path string, report ExperimentReport) error {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer os.Remove(file.Name())

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(report); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(file.Name(), path)
}
