package main

import (
	"context"
	"fmt"
	"io"

	"abapsim/engine"
	"abapsim/jobmanager"
	"abapsim/logging"
	"abapsim/serialization"
	"abapsim/shared"
	"abapsim/source"
)

// BatchOptions controls a non-interactive run over source files
type BatchOptions struct {
	Format      string
	Encoding    string
	Concurrency int
	Warnings    bool
	CheckOnly   bool
}

// RunBatch interprets every path in its own execution context, at most
// opts.Concurrency at a time. Results come back in argument order.
func RunBatch(ctx context.Context, eng *engine.ExecutionEngine, paths []string, opts BatchOptions, logger logging.Logger) ([]shared.RunResult, error) {
	jm := jobmanager.NewJobManager(opts.Concurrency, logger)
	defer jm.Shutdown()

	for _, path := range paths {
		path := path
		task := func(ctx context.Context) (shared.RunResult, error) {
			return runFile(ctx, eng, path, opts), nil
		}
		if _, err := jm.Submit(ctx, path, task); err != nil {
			return nil, fmt.Errorf("batch aborted: %w", err)
		}
	}
	return jm.Results(), nil
}

func runFile(ctx context.Context, eng *engine.ExecutionEngine, path string, opts BatchOptions) shared.RunResult {
	src, err := source.LoadFile(path, opts.Encoding)
	if err != nil {
		return shared.NewFailedResult(path, err)
	}
	if opts.CheckOnly {
		return shared.NewCheckResult(path, eng.Check(src))
	}
	res, err := eng.Run(ctx, src)
	return shared.NewRunResult(path, res, err, opts.Warnings)
}

// WriteResults prints results as text or through a registered serializer.
// A single result is encoded as one document, several as a list.
func WriteResults(w io.Writer, results []shared.RunResult, format string) error {
	if format == "" || format == "text" {
		header := len(results) > 1
		for _, r := range results {
			if _, err := io.WriteString(w, shared.FormatText(r, header)); err != nil {
				return err
			}
		}
		return nil
	}

	var doc interface{} = results
	if len(results) == 1 {
		doc = results[0]
	}
	return serialization.Write(w, doc, format)
}

// BatchExitCode returns the most severe exit code among results
func BatchExitCode(results []shared.RunResult) int {
	code := 0
	for _, r := range results {
		if c := r.ExitCode(); c > code {
			code = c
		}
	}
	return code
}
