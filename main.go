package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  harness [run]                 sweep every configured reference
  harness verify [reference]    check results do not depend on query mode or prefix table
  harness clean <in> [out]      strip N from a reference sequence and re-wrap it
`)
}

// exitCode maps an error to the process exit code; a failing tool passes its own code through.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Stderr != "" {
			fmt.Fprint(os.Stderr, exitErr.Stderr)
		}
		if exitErr.Code > 0 {
			return exitErr.Code
		}
	}
	return 1
}

func loadConfig(ctx context.Context) (Config, error) {
	config, err := LoadConfig(StringEnv("HARNESS_ENV_FILE", ".env"))
	if err != nil {
		return Config{}, err
	}
	if err := EnsureTools(ctx, config); err != nil {
		return Config{}, err
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func runSweep(ctx context.Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	experiment := NewExperiment(config, &ProcessInvoker{Verbose: config.Verbose})
	storage := &Storage{Url: config.ResultsDbUrl, AuthToken: config.ResultsDbToken}
	for _, reference := range config.References {
		report, _, err := experiment.Run(ctx, reference)
		if err != nil {
			return fmt.Errorf("experiment for %v failed: %w", reference, err)
		}
		if storage.Enabled() {
			if err := storage.UploadReport(ctx, report); err != nil {
				Logger.Errorf("failed to upload report for %v: %v", reference, err)
			}
		}
	}
	return nil
}

func runVerify(ctx context.Context, args []string) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	reference := "ecoli.fasta"
	if len(args) > 0 {
		reference = args[0]
	}
	verifier := NewVerifier(NewExperiment(config, &ProcessInvoker{Verbose: config.Verbose}))
	findings, err := verifier.Verify(ctx, reference)
	if err != nil {
		return err
	}
	if len(findings) > 0 {
		Logger.Warnf("verification of %v found %v mismatches", reference, len(findings))
	} else {
		Logger.Infof("verification of %v found no mismatches", reference)
	}
	return nil
}

func runClean(args []string) error {
	if len(args) < 1 {
		usage()
		return fmt.Errorf("a reference file is required")
	}
	in, out := args[0], args[0]
	if len(args) > 1 {
		out = args[1]
	}
	Logger.Infof("clean sequence %v -> %v", in, out)
	return CleanSequenceFile(in, out, 'N')
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	command, args := "run", []string{}
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	var err error
	switch command {
	case "run":
		err = runSweep(ctx)
	case "verify":
		err = runVerify(ctx, args)
	case "clean":
		err = runClean(args)
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		err = fmt.Errorf("unknown command %q", command)
	}
	stop()

	if err != nil {
		Logger.Errorf("%v", err)
	}
	Logger.Sync()
	os.Exit(exitCode(err))
}
