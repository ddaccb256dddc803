package main

import "context"

// Invoker runs an external tool to completion and returns its standard output.
type Invoker interface {
	Invoke(ctx context.Context, command string, args ...string) (string, error)
}

// OutputParser turns the text printed by the external tools into typed records.
// All knowledge of the tools' output format lives behind this interface.
type OutputParser interface {
	ParseBuild(preftab int, output string) (BuildResult, error)
	ParseQuery(mode QueryMode, queryFile string, output string) (QueryRunResult, error)
}
