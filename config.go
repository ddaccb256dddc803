package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// Config carries every tool location and artifact directory the harness touches.
type Config struct {
	BuildSA    string
	BuildQuery string
	QuerySA    string

	SavesDir      string
	QueriesDir    string
	ReferencesDir string
	RunsDir       string
	ScratchDir    string

	References   []string
	RunSuffix    string
	Runs         int
	Verbose      bool
	ClearCaches  bool
	ReuseQueries bool

	CargoDir string

	ResultsDbUrl   string
	ResultsDbToken string
}

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func BoolEnv(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

// ListEnv splits a comma separated variable, dropping empty items.
func ListEnv(key string, def []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// DefaultConfig lays the harness out under root the way the tools repository does:
// binaries in target/release, artifacts in sibling directories.
func DefaultConfig(root string) Config {
	release := filepath.Join(root, "target", "release")
	return Config{
		BuildSA:       filepath.Join(release, "buildsa"),
		BuildQuery:    filepath.Join(release, "buildquery"),
		QuerySA:       filepath.Join(release, "querysa"),
		SavesDir:      filepath.Join(root, "saves"),
		QueriesDir:    filepath.Join(root, "queries"),
		ReferencesDir: filepath.Join(root, "references"),
		RunsDir:       filepath.Join(root, "scripts", "runs"),
		ScratchDir:    filepath.Join(root, "scratch"),
		References:    []string{"ecoli.fasta", "mouse_chr_16.fasta", "human_chr_1.fasta"},
		RunSuffix:     "post-refactor",
		Runs:          10,
		Verbose:       true,
	}
}

// LoadConfig reads an optional .env file and overlays HARNESS_* variables on the defaults.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %v: %w", envFile, err)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}
	def := DefaultConfig(StringEnv("HARNESS_ROOT", cwd))
	return Config{
		BuildSA:        StringEnv("HARNESS_BUILDSA", def.BuildSA),
		BuildQuery:     StringEnv("HARNESS_BUILDQUERY", def.BuildQuery),
		QuerySA:        StringEnv("HARNESS_QUERYSA", def.QuerySA),
		SavesDir:       StringEnv("HARNESS_SAVES_DIR", def.SavesDir),
		QueriesDir:     StringEnv("HARNESS_QUERIES_DIR", def.QueriesDir),
		ReferencesDir:  StringEnv("HARNESS_REFERENCES_DIR", def.ReferencesDir),
		RunsDir:        StringEnv("HARNESS_RUNS_DIR", def.RunsDir),
		ScratchDir:     StringEnv("HARNESS_SCRATCH_DIR", def.ScratchDir),
		References:     ListEnv("HARNESS_REFERENCES", def.References),
		RunSuffix:      StringEnv("HARNESS_RUN_SUFFIX", def.RunSuffix),
		Runs:           IntEnv("HARNESS_RUNS", def.Runs),
		Verbose:        BoolEnv("HARNESS_VERBOSE", def.Verbose),
		ClearCaches:    BoolEnv("HARNESS_CLEAR_CACHES", def.ClearCaches),
		ReuseQueries:   BoolEnv("HARNESS_REUSE_QUERIES", def.ReuseQueries),
		CargoDir:       StringEnv("HARNESS_CARGO_DIR", def.CargoDir),
		ResultsDbUrl:   StringEnv("HARNESS_RESULTS_DB_URL", def.ResultsDbUrl),
		ResultsDbToken: StringEnv("HARNESS_RESULTS_DB_TOKEN", def.ResultsDbToken),
	}, nil
}

func (c Config) tools() map[string]string {
	return map[string]string{
		"buildsa":    c.BuildSA,
		"buildquery": c.BuildQuery,
		"querysa":    c.QuerySA,
	}
}

// MissingTools lists the tool names whose binaries are absent or not executable.
func (c Config) MissingTools() []string {
	missing := make([]string, 0)
	for _, name := range []string{"buildsa", "buildquery", "querysa"} {
		info, err := os.Stat(c.tools()[name])
		if err != nil || info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate checks the recognized options and creates the artifact directories.
func (c Config) Validate() error {
	if c.Runs <= 0 {
		return fmt.Errorf("%w: runs must be positive, got %v", ErrInvalidConfiguration, c.Runs)
	}
	for name, path := range c.tools() {
		if path == "" {
			return fmt.Errorf("%w: path to %v is empty", ErrInvalidConfiguration, name)
		}
	}
	if missing := c.MissingTools(); len(missing) > 0 {
		return fmt.Errorf("%w: tools %v are missing or not executable", ErrInvalidConfiguration, missing)
	}
	for _, dir := range []string{c.SavesDir, c.QueriesDir, c.RunsDir, c.ScratchDir} {
		if dir == "" {
			return fmt.Errorf("%w: artifact directory is empty", ErrInvalidConfiguration)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create artifact directory %v: %w", dir, err)
		}
	}
	return nil
}
