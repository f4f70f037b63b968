// Package scanner runs registered analyzers over many files. Files are
// processed concurrently; each file's own analysis stays sequential.
package scanner

import (
	"context"
	"fmt"
	"time"

	"PNGProbe/pkg/analyzer"
	"PNGProbe/pkg/filehandler"
	"PNGProbe/pkg/models"

	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome for one input path
type FileResult struct {
	Path     string
	Format   string
	Analyzer string
	Result   *models.AnalysisResult
	Err      error
	Duration time.Duration
}

// ProgressFunc is called once per finished file
type ProgressFunc func(r FileResult)

// Scanner dispatches files to the analyzers of a registry
type Scanner struct {
	Registry   *analyzer.Registry
	Options    analyzer.AnalysisOptions
	Workers    int
	FormatHint string // "auto" or empty detects the format per file
}

// New creates a scanner over registry
func New(registry *analyzer.Registry, options analyzer.AnalysisOptions, workers int) *Scanner {
	return &Scanner{
		Registry:   registry,
		Options:    options,
		Workers:    workers,
		FormatHint: "auto",
	}
}

// Scan analyzes every path and returns results in input order. A failure on
// one file is recorded on its FileResult; only context cancellation is
// returned as an error.
func (s *Scanner) Scan(ctx context.Context, paths []string, progress ProgressFunc) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.ScanFile(path)
			if progress != nil {
				progress(results[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// ScanFile analyzes a single path with the first analyzer registered for its format
func (s *Scanner) ScanFile(path string) FileResult {
	start := time.Now()
	fr := FileResult{Path: path}

	format := s.FormatHint
	if format == "" || format == "auto" {
		detected, err := filehandler.DetectFileFormat(path)
		if err != nil {
			fr.Err = err
			fr.Duration = time.Since(start)
			return fr
		}
		format = detected
	}
	fr.Format = format

	analyzers := s.Registry.GetAnalyzersForFormat(format)
	if len(analyzers) == 0 {
		fr.Err = fmt.Errorf("no analyzers available for format: %s", format)
		fr.Duration = time.Since(start)
		return fr
	}

	a := analyzers[0]
	fr.Analyzer = a.Name()

	opts := s.Options
	opts.Format = format
	fr.Result, fr.Err = a.Analyze(path, opts)
	fr.Duration = time.Since(start)
	return fr
}

// Failed returns the results that carry an error
func Failed(results []FileResult) []FileResult {
	var out []FileResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Succeeded returns the analysis results of every file that was analyzed
func Succeeded(results []FileResult) []*models.AnalysisResult {
	var out []*models.AnalysisResult
	for _, r := range results {
		if r.Err == nil && r.Result != nil {
			out = append(out, r.Result)
		}
	}
	return out
}
