package main

import (
	"fmt"
	"time"
)

type QueryStrategy string

const (
	StrategyExactMatch QueryStrategy = "exact-match"
	StrategyPerturb    QueryStrategy = "perturb"
)

func (s QueryStrategy) Valid() bool {
	return s == StrategyExactMatch || s == StrategyPerturb
}

type QueryMode string

const (
	ModeNaive     QueryMode = "naive"
	ModeSimpaccel QueryMode = "simpaccel"
)

// QueryModes is the order in which query modes are exercised.
func QueryModes() []QueryMode {
	return []QueryMode{ModeNaive, ModeSimpaccel}
}

// QueryConfiguration describes one generated query file. The file name encodes every field.
type QueryConfiguration struct {
	Strategy  QueryStrategy
	Queries   int
	MinLength int
	MaxLength int
}

func NewQueryConfiguration(strategy QueryStrategy, queries, minLength, maxLength int) (QueryConfiguration, error) {
	config := QueryConfiguration{Strategy: strategy, Queries: queries, MinLength: minLength, MaxLength: maxLength}
	if err := config.Validate(); err != nil {
		return QueryConfiguration{}, err
	}
	return config, nil
}

func (c QueryConfiguration) Validate() error {
	switch {
	case !c.Strategy.Valid():
		return fmt.Errorf("%w: unknown query strategy %q", ErrInvalidConfiguration, c.Strategy)
	case c.Queries <= 0:
		return fmt.Errorf("%w: query count must be positive, got %v", ErrInvalidConfiguration, c.Queries)
	case c.MinLength <= 0:
		return fmt.Errorf("%w: min length must be positive, got %v", ErrInvalidConfiguration, c.MinLength)
	case c.MaxLength < c.MinLength:
		return fmt.Errorf("%w: max length %v is below min length %v", ErrInvalidConfiguration, c.MaxLength, c.MinLength)
	}
	return nil
}

// Reachable reports whether an index with prefix table size k can serve this configuration.
// k == 0 means no prefix table, so nothing is excluded.
func (c QueryConfiguration) Reachable(k int) bool {
	return k == 0 || c.MaxLength <= k
}

func (c QueryConfiguration) String() string {
	return fmt.Sprintf("%v-%v-queries-size-%v-to-%v", c.Strategy, c.Queries, c.MinLength, c.MaxLength)
}

type BuildResult struct {
	Preftab              int     `json:"preftab"`
	ConstructionTime     float64 `json:"suffix_array_construction_time"`
	ConstructionTimeUnit string  `json:"suffix_array_construction_time_unit"`
	PrefixTableTime      float64 `json:"prefix_table_construction_time,omitempty"`
	PrefixTableTimeUnit  string  `json:"prefix_table_construction_time_unit,omitempty"`
	FileSize             int64   `json:"file_size"`
	Output               string  `json:"output"`
}

type QueryRunResult struct {
	QueryFile      string        `json:"query_file"`
	QueryMode      QueryMode     `json:"query_mode"`
	QueryTime      float64       `json:"query_time"`
	QueryTimeUnits string        `json:"query_time_units"`
	Queries        int           `json:"queries"`
	QueryStrategy  QueryStrategy `json:"query_strategy"`
	MinQueryLength int           `json:"min_query_length"`
	MaxQueryLength int           `json:"max_query_length"`
	Output         string        `json:"output"`
}

type SubExperimentResult struct {
	Preftab int                            `json:"preftab"`
	BuildSA BuildResult                    `json:"buildsa"`
	QuerySA map[QueryMode][]QueryRunResult `json:"querysa"`
}

type ExperimentReport struct {
	RunId         string                `json:"run_id"`
	ReferenceName string                `json:"reference_name"`
	FileSize      int64                 `json:"file_size"`
	StartedAt     time.Time             `json:"started_at"`
	FinishedAt    time.Time             `json:"finished_at"`
	Host          SysInfo               `json:"host"`
	Results       []SubExperimentResult `json:"results"`
	Summary       []TimingSummary       `json:"summary"`
}

// RawQueryRun is the unparsed output of a single querysa invocation.
type RawQueryRun struct {
	QueryFile string
	Config    QueryConfiguration
	Output    string
}

type RawSubExperiment struct {
	Preftab     int
	BuildOutput string
	QueryRuns   map[QueryMode][]RawQueryRun
}

type RawReport struct {
	RunId         string
	ReferenceName string
	FileSize      int64
	StartedAt     time.Time
	FinishedAt    time.Time
	Host          SysInfo
	Results       []RawSubExperiment
}
