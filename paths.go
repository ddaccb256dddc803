package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const queryFileExt = ".fasta"

var queryFileRegex = regexp.MustCompile(`^(.*?)-(\d+)-queries-size-(\d+)-to-(\d+)`)

// Paths names every on-disk artifact from the parameters that produced it.
// Index and match-output files are keyed by (reference, k) and (reference, mode, k)
// so no two configurations ever share a slot.
type Paths struct {
	Saves      string
	Queries    string
	References string
	Runs       string
	Scratch    string
}

func NewPaths(config Config) Paths {
	return Paths{
		Saves:      config.SavesDir,
		Queries:    config.QueriesDir,
		References: config.ReferencesDir,
		Runs:       config.RunsDir,
		Scratch:    config.ScratchDir,
	}
}

// ReferenceStem drops directories and every extension: "refs/ecoli.fasta.gz" -> "ecoli".
func ReferenceStem(reference string) string {
	name := filepath.Base(reference)
	stem, _, _ := strings.Cut(name, ".")
	return stem
}

func (p Paths) Reference(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.References, name)
}

func (p Paths) QueryFile(config QueryConfiguration) string {
	return filepath.Join(p.Queries, config.String()+queryFileExt)
}

func (p Paths) Index(reference string, k int) string {
	return filepath.Join(p.Saves, fmt.Sprintf("%v-preftab-%v.bin", ReferenceStem(reference), k))
}

func (p Paths) MatchOutput(reference string, mode QueryMode, k int) string {
	return filepath.Join(p.Scratch, fmt.Sprintf("%v-%v-preftab-%v.txt", ReferenceStem(reference), mode, k))
}

func (p Paths) Report(reference string, suffix string) string {
	return filepath.Join(p.Runs, fmt.Sprintf("%v-run-%v.json", ReferenceStem(reference), suffix))
}

// ParseQueryFileName recovers the configuration encoded in a query file name.
func ParseQueryFileName(path string) (QueryConfiguration, error) {
	groups := queryFileRegex.FindStringSubmatch(filepath.Base(path))
	if groups == nil {
		return QueryConfiguration{}, fmt.Errorf("%w: query file name %q", ErrUnexpectedOutput, path)
	}
	queries, _ := strconv.Atoi(groups[2])
	minLength, _ := strconv.Atoi(groups[3])
	maxLength, _ := strconv.Atoi(groups[4])
	return QueryConfiguration{
		Strategy:  QueryStrategy(groups[1]),
		Queries:   queries,
		MinLength: minLength,
		MaxLength: maxLength,
	}, nil
}
