package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseBuild(t *testing.T) {
	result, err := TextParser{}.ParseBuild(0, "the suffix array took 1.250s\nfile has size: 4641652")
	require.Nil(t, err)
	require.Equal(t, 1.25, result.ConstructionTime)
	require.Equal(t, "s", result.ConstructionTimeUnit)
	require.Equal(t, int64(4641652), result.FileSize)
	require.Equal(t, "", result.PrefixTableTimeUnit)
}

func TestParseBuildWithPrefixTable(t *testing.T) {
	output := "Constructing the suffix array took 812.5ms\n" +
		"Building prefix table with k=8\n" +
		"Constructing the prefix table took 41.2µs\n" +
		"The resulting file has size: 123456 bytes or ~ 0 MiB\n"
	result, err := TextParser{}.ParseBuild(8, output)
	require.Nil(t, err)
	require.Equal(t, 8, result.Preftab)
	require.Equal(t, 812.5, result.ConstructionTime)
	require.Equal(t, "ms", result.ConstructionTimeUnit)
	require.Equal(t, 41.2, result.PrefixTableTime)
	require.Equal(t, "µs", result.PrefixTableTimeUnit)
	require.Equal(t, int64(123456), result.FileSize)
	require.Equal(t, output, result.Output)
}

func TestParseBuildRejectsUnknownOutput(t *testing.T) {
	_, err := TextParser{}.ParseBuild(0, "the suffix array took 1.250s")
	require.ErrorIs(t, err, ErrUnexpectedOutput)
	_, err = TextParser{}.ParseBuild(0, "")
	require.ErrorIs(t, err, ErrUnexpectedOutput)
}

func TestParseQuery(t *testing.T) {
	result, err := TextParser{}.ParseQuery(
		ModeNaive,
		"/q/exact-match-100000-queries-size-5-to-5.fasta",
		"Took 0.003ms to find matches in 100000",
	)
	require.Nil(t, err)
	require.Equal(t, 0.003, result.QueryTime)
	require.Equal(t, "ms", result.QueryTimeUnits)
	require.Equal(t, 100000, result.Queries)
	require.Equal(t, StrategyExactMatch, result.QueryStrategy)
	require.Equal(t, 5, result.MinQueryLength)
	require.Equal(t, 5, result.MaxQueryLength)
	require.Equal(t, ModeNaive, result.QueryMode)
}

func TestParseQueryFailures(t *testing.T) {
	_, err := TextParser{}.ParseQuery(ModeNaive, "exact-match-100000-queries-size-5-to-5.fasta", "nothing here")
	require.ErrorIs(t, err, ErrUnexpectedOutput)
	_, err = TextParser{}.ParseQuery(ModeNaive, "queries.fasta", "Took 0.003ms to find matches in 100000")
	require.ErrorIs(t, err, ErrUnexpectedOutput)
}

func rawReportFixture(config QueryConfiguration, queryFile string) RawReport {
	return RawReport{
		RunId:         "run",
		ReferenceName: "ecoli.fasta",
		FileSize:      42,
		StartedAt:     time.Unix(0, 0),
		Results: []RawSubExperiment{{
			Preftab:     0,
			BuildOutput: fakeBuildOutput,
			QueryRuns: map[QueryMode][]RawQueryRun{
				ModeNaive:     {{QueryFile: queryFile, Config: config, Output: "Took 2.5ms to find matches in 10 queries"}},
				ModeSimpaccel: {{QueryFile: queryFile, Config: config, Output: "Took 1.5ms to find matches in 10 queries"}},
			},
		}},
	}
}

func TestFormatResults(t *testing.T) {
	config := QueryConfiguration{Strategy: StrategyPerturb, Queries: 10, MinLength: 5, MaxLength: 30}
	report, err := FormatResults(rawReportFixture(config, "q/"+config.String()+".fasta"), TextParser{})
	require.Nil(t, err)
	require.Equal(t, "ecoli.fasta", report.ReferenceName)
	require.Len(t, report.Results, 1)
	require.Equal(t, 1.25, report.Results[0].BuildSA.ConstructionTime)
	require.Equal(t, 2.5, report.Results[0].QuerySA[ModeNaive][0].QueryTime)
	require.Equal(t, 1.5, report.Results[0].QuerySA[ModeSimpaccel][0].QueryTime)
	require.Equal(t, StrategyPerturb, report.Results[0].QuerySA[ModeSimpaccel][0].QueryStrategy)
	require.Len(t, report.Summary, 2)
}

func TestFormatResultsRejectsMismatchedConfiguration(t *testing.T) {
	config := QueryConfiguration{Strategy: StrategyPerturb, Queries: 10, MinLength: 5, MaxLength: 30}
	other := QueryConfiguration{Strategy: StrategyExactMatch, Queries: 10, MinLength: 5, MaxLength: 30}
	_, err := FormatResults(rawReportFixture(config, "q/"+other.String()+".fasta"), TextParser{})
	require.ErrorIs(t, err, ErrIntegrity)
}

func TestFormatResultsFailsOnBadOutput(t *testing.T) {
	config := QueryConfiguration{Strategy: StrategyPerturb, Queries: 10, MinLength: 5, MaxLength: 30}
	raw := rawReportFixture(config, "q/"+config.String()+".fasta")
	raw.Results[0].BuildOutput = "segfault"
	_, err := FormatResults(raw, TextParser{})
	require.ErrorIs(t, err, ErrUnexpectedOutput)
}
