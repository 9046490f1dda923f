package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"abapsim/engine"
	"abapsim/errors"
	"abapsim/logging"
	"abapsim/repl"
)

const version = "v0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is the whole command line front end; it returns the exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("abapsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "~/.abapsim.yaml", "Path to configuration file (YAML or JSON)")
		execFiles   = fs.String("exec", "", "Comma separated source files to run in batch mode (- reads stdin)")
		checkOnly   = fs.Bool("check", false, "Report syntax errors without running")
		format      = fs.String("format", "", "Batch output format: text, json, json-compact, yaml")
		encoding    = fs.String("encoding", "", "Source encoding (utf-8, auto, shift_jis, latin1, windows-1252, ...)")
		maxSteps    = fs.Int64("max-steps", 0, "Statement step budget per run")
		timeout     = fs.Duration("timeout", 0, "Wall-clock budget per run")
		concurrency = fs.Int("concurrency", 0, "Files interpreted in parallel in batch mode")
		compat      = fs.Bool("compat", false, "Skip only the innermost IF/CASE branch (legacy behaviour)")
		warnings    = fs.Bool("warnings", false, "Report runtime warnings next to the output")
		verbose     = fs.Bool("verbose", false, "Enable debug logging")
		showVersion = fs.Bool("version", false, "Show version information")
		showHelp    = fs.Bool("help", false, "Show help information")
	)
	fs.Usage = func() { printHelp(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errors.ExitOK
		}
		return errors.ExitFailure
	}

	if *showVersion {
		fmt.Fprintf(stdout, "abapsim %s - ABAP subset interpreter\n", version)
		return errors.ExitOK
	}
	if *showHelp {
		printHelp(stdout, fs)
		return errors.ExitOK
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errors.ExitCode(err)
	}

	// explicitly set flags win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Batch.Format = *format
		case "encoding":
			cfg.Batch.Encoding = *encoding
		case "max-steps":
			cfg.Engine.MaxSteps = *maxSteps
		case "timeout":
			cfg.Engine.TimeoutMs = int(*timeout / time.Millisecond)
		case "concurrency":
			cfg.Batch.Concurrency = *concurrency
		case "compat":
			cfg.Engine.ShallowBranchSkip = *compat
		case "warnings":
			cfg.Batch.Warnings = *warnings
		case "verbose":
			if *verbose {
				cfg.Logging.Level = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errors.ExitCode(err)
	}

	logger, err := logging.NewLoggerFromSettings(cfg.Logging.Level, cfg.Logging.Format, expandHome(cfg.Logging.File))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errors.ExitFailure
	}
	defer logger.Close()

	engineConfig := cfg.EngineSettings()
	engineConfig.Logger = logger
	eng := engine.NewExecutionEngineWithConfig(engineConfig)

	paths := splitPaths(*execFiles)
	paths = append(paths, fs.Args()...)
	if len(paths) == 0 {
		r := repl.NewREPLWithConfig(repl.REPLConfig{
			Engine:         eng,
			Logger:         logger,
			Prompt:         cfg.REPL.Prompt,
			ContinuePrompt: cfg.REPL.ContinuePrompt,
			HistoryFile:    expandHome(cfg.REPL.HistoryFile),
			HistorySize:    cfg.REPL.HistorySize,
			ShowWelcome:    cfg.REPL.ShowWelcome,
			ShowWarnings:   cfg.Batch.Warnings,
			EnableColors:   cfg.REPL.Colors,
			Version:        version,
			In:             stdin,
			Out:            stdout,
		})
		if err := r.Run(ctx); err != nil {
			logger.ErrorExecution(err)
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return errors.ExitFailure
		}
		return errors.ExitOK
	}

	results, err := RunBatch(ctx, eng, paths, BatchOptions{
		Format:      cfg.Batch.Format,
		Encoding:    cfg.Batch.Encoding,
		Concurrency: cfg.Batch.Concurrency,
		Warnings:    cfg.Batch.Warnings,
		CheckOnly:   *checkOnly,
	}, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errors.ExitFailure
	}
	if err := WriteResults(stdout, results, cfg.Batch.Format); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errors.ExitFailure
	}
	return BatchExitCode(results)
}

func splitPaths(list string) []string {
	var paths []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, `abapsim %s - ABAP subset interpreter

Usage:
  abapsim [flags]                  start the interactive REPL
  abapsim [flags] file.abap ...    run source files
  abapsim -exec a.abap,b.abap      run source files
  abapsim -check file.abap         report syntax errors only

Exit codes: 0 ok, 1 failure, 2 syntax errors, 3 resource limit exceeded.

Flags:
`, version)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
