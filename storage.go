package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Storage uploads parsed reports to a libsql database next to the JSON files.
type Storage struct {
	Url       string
	AuthToken string
}

type Measurement struct {
	RunId       string
	Reference   string
	Preftab     int
	Stage       string
	Mode        string
	QueryFile   string
	Attempt     int
	Measurement string
	Value       float64
	Unit        string
}

func (s *Storage) Enabled() bool { return s.Url != "" }

func (s *Storage) dsn() (string, error) {
	if s.AuthToken == "" {
		return s.Url, nil
	}
	u, err := url.Parse(s.Url)
	if err != nil {
		return "", fmt.Errorf("invalid results db url: %w", err)
	}
	q := u.Query()
	q.Set("authToken", s.AuthToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *Storage) ConnectDb() (*sql.DB, error) {
	dsn, err := s.dsn()
	if err != nil {
		return nil, err
	}
	return sql.Open("libsql", dsn)
}

func (s *Storage) InitResultsDb(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS parameters (
		run_id TEXT,
		name TEXT,
		value,
		PRIMARY KEY (run_id, name)
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS measurements (
		run_id TEXT,
		reference TEXT,
		preftab INTEGER,
		stage TEXT,
		mode TEXT,
		query_file TEXT,
		attempt INTEGER,
		measurement TEXT,
		value REAL,
		unit TEXT,
		PRIMARY KEY (run_id, preftab, stage, mode, query_file, attempt, measurement)
	)`)
	if err != nil {
		return err
	}
	Logger.Infof("initialized database for benchmark results")
	return nil
}

func (s *Storage) InsertParameters(db *sql.DB, runId string, parameters map[string]any) error {
	if len(parameters) == 0 {
		return nil
	}
	keys := make([]string, 0, len(parameters))
	for key := range parameters {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	values := make([]any, 0, len(keys)*3)
	for _, key := range keys {
		values = append(values, runId, key, fmt.Sprintf("%v", parameters[key]))
	}
	placeholders := strings.Join(slices.Repeat([]string{"(?, ?, ?)"}, len(keys)), ", ")
	_, err := db.Exec(
		fmt.Sprintf("INSERT INTO parameters VALUES %v ON CONFLICT DO NOTHING", placeholders),
		values...,
	)
	return err
}

func (s *Storage) InsertMeasurements(ctx context.Context, db *sql.DB, measurements []Measurement) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, m := range measurements {
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO measurements VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			m.RunId,
			m.Reference,
			m.Preftab,
			m.Stage,
			m.Mode,
			m.QueryFile,
			m.Attempt,
			m.Measurement,
			m.Value,
			m.Unit,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Measurements flattens a report into one row per recorded number.
// Attempt numbers count repeated runs of the same query file within a (preftab, mode) group.
func Measurements(report ExperimentReport) []Measurement {
	measurements := make([]Measurement, 0)
	for _, sub := range report.Results {
		base := Measurement{RunId: report.RunId, Reference: report.ReferenceName, Preftab: sub.Preftab, Stage: "buildsa"}
		add := func(m Measurement, name string, value float64, unit string) {
			m.Measurement, m.Value, m.Unit = name, value, unit
			measurements = append(measurements, m)
		}
		add(base, "construction_time", sub.BuildSA.ConstructionTime, sub.BuildSA.ConstructionTimeUnit)
		add(base, "file_size", float64(sub.BuildSA.FileSize), "bytes")
		if sub.BuildSA.PrefixTableTimeUnit != "" {
			add(base, "prefix_table_time", sub.BuildSA.PrefixTableTime, sub.BuildSA.PrefixTableTimeUnit)
		}
		for _, mode := range QueryModes() {
			attempts := make(map[string]int)
			for _, run := range sub.QuerySA[mode] {
				queryFile := filepath.Base(run.QueryFile)
				attempts[queryFile]++
				m := Measurement{
					RunId:     report.RunId,
					Reference: report.ReferenceName,
					Preftab:   sub.Preftab,
					Stage:     "querysa",
					Mode:      string(mode),
					QueryFile: queryFile,
					Attempt:   attempts[queryFile],
				}
				add(m, "query_time", run.QueryTime, run.QueryTimeUnits)
				add(m, "queries", float64(run.Queries), "queries")
			}
		}
	}
	return measurements
}

// UploadReport stores the report parameters and measurements in the results database.
func (s *Storage) UploadReport(ctx context.Context, report ExperimentReport) error {
	db, err := s.ConnectDb()
	if err != nil {
		return fmt.Errorf("unable to connect to the results db: %w", err)
	}
	defer db.Close()

	if err := s.InitResultsDb(db); err != nil {
		return fmt.Errorf("unable to initialize results db: %w", err)
	}
	parameters := report.Host.Parameters()
	parameters["time"] = report.StartedAt.Format(time.DateTime)
	parameters["reference"] = report.ReferenceName
	parameters["file_size"] = report.FileSize
	if err := s.InsertParameters(db, report.RunId, parameters); err != nil {
		return fmt.Errorf("failed to insert parameters for %v: %w", report.RunId, err)
	}
	measurements := Measurements(report)
	if err := s.InsertMeasurements(ctx, db, measurements); err != nil {
		return fmt.Errorf("failed to insert measurements for %v: %w", report.RunId, err)
	}
	Logger.Infof("uploaded %v measurements for run %v", len(measurements), report.RunId)
	return nil
}
