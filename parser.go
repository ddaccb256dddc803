package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	ErrUnexpectedOutput = errors.New("unexpected tool output")
	ErrIntegrity        = errors.New("query run does not match its configuration")
)

var (
	buildSaRegex     = regexp.MustCompile(`(?s)the suffix array took (\d+(?:\.\d+)?)([^\n]*?)\r?\n.*file has size: (\d+)`)
	prefixTableRegex = regexp.MustCompile(`the prefix table took (\d+(?:\.\d+)?)([^\r\n]*)`)
	querySaRegex     = regexp.MustCompile(`Took (\d+(?:\.\d+)?)(.*?) to find matches in (\d+)`)
)

// TextParser reads the human-readable output printed by buildsa and querysa.
type TextParser struct{}

func (TextParser) ParseBuild(preftab int, output string) (BuildResult, error) {
	groups := buildSaRegex.FindStringSubmatch(output)
	if groups == nil {
		return BuildResult{}, fmt.Errorf("%w: buildsa output %q", ErrUnexpectedOutput, output)
	}
	constructionTime, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: construction time %q: %w", ErrUnexpectedOutput, groups[1], err)
	}
	fileSize, err := strconv.ParseInt(groups[3], 10, 64)
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: file size %q: %w", ErrUnexpectedOutput, groups[3], err)
	}
	result := BuildResult{
		Preftab:              preftab,
		ConstructionTime:     constructionTime,
		ConstructionTimeUnit: groups[2],
		FileSize:             fileSize,
		Output:               output,
	}
	if groups := prefixTableRegex.FindStringSubmatch(output); groups != nil {
		result.PrefixTableTime, _ = strconv.ParseFloat(groups[1], 64)
		result.PrefixTableTimeUnit = groups[2]
	}
	return result, nil
}

func (TextParser) ParseQuery(mode QueryMode, queryFile string, output string) (QueryRunResult, error) {
	groups := querySaRegex.FindStringSubmatch(output)
	if groups == nil {
		return QueryRunResult{}, fmt.Errorf("%w: querysa output %q", ErrUnexpectedOutput, output)
	}
	queryTime, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return QueryRunResult{}, fmt.Errorf("%w: query time %q: %w", ErrUnexpectedOutput, groups[1], err)
	}
	queries, err := strconv.Atoi(groups[3])
	if err != nil {
		return QueryRunResult{}, fmt.Errorf("%w: query count %q: %w", ErrUnexpectedOutput, groups[3], err)
	}
	config, err := ParseQueryFileName(queryFile)
	if err != nil {
		return QueryRunResult{}, err
	}
	return QueryRunResult{
		QueryFile:      queryFile,
		QueryMode:      mode,
		QueryTime:      queryTime,
		QueryTimeUnits: groups[2],
		Queries:        queries,
		QueryStrategy:  config.Strategy,
		MinQueryLength: config.MinLength,
		MaxQueryLength: config.MaxLength,
		Output:         output,
	}, nil
}

// FormatResults replaces every raw build and query output with its parsed form.
// Any parse failure aborts the whole pass.
func FormatResults(raw RawReport, parser OutputParser) (ExperimentReport, error) {
	report := ExperimentReport{
		RunId:         raw.RunId,
		ReferenceName: raw.ReferenceName,
		FileSize:      raw.FileSize,
		StartedAt:     raw.StartedAt,
		FinishedAt:    raw.FinishedAt,
		Host:          raw.Host,
		Results:       make([]SubExperimentResult, 0, len(raw.Results)),
	}
	for _, item := range raw.Results {
		build, err := parser.ParseBuild(item.Preftab, item.BuildOutput)
		if err != nil {
			return ExperimentReport{}, fmt.Errorf("failed to parse build for preftab %v: %w", item.Preftab, err)
		}
		sub := SubExperimentResult{
			Preftab: item.Preftab,
			BuildSA: build,
			QuerySA: make(map[QueryMode][]QueryRunResult),
		}
		for _, mode := range QueryModes() {
			runs := make([]QueryRunResult, 0, len(item.QueryRuns[mode]))
			for _, run := range item.QueryRuns[mode] {
				result, err := parser.ParseQuery(mode, run.QueryFile, run.Output)
				if err != nil {
					return ExperimentReport{}, fmt.Errorf("failed to parse %v run of %v for preftab %v: %w", mode, run.QueryFile, item.Preftab, err)
				}
				if err := checkIntegrity(result, run.Config); err != nil {
					return ExperimentReport{}, err
				}
				runs = append(runs, result)
			}
			sub.QuerySA[mode] = runs
		}
		report.Results = append(report.Results, sub)
	}
	report.Summary = Summarize(report)
	return report, nil
}

func checkIntegrity(result QueryRunResult, config QueryConfiguration) error {
	if result.QueryStrategy != config.Strategy ||
		result.MinQueryLength != config.MinLength ||
		result.MaxQueryLength != config.MaxLength {
		return fmt.Errorf(
			"%w: %v parsed as (%v, %v, %v), expected %v",
			ErrIntegrity,
			result.QueryFile,
			result.QueryStrategy,
			result.MinQueryLength,
			result.MaxQueryLength,
			config,
		)
	}
	return nil
}
