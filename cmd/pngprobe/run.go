package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"PNGProbe/pkg/analyzer"
	pnganalyzer "PNGProbe/pkg/analyzer/image/png"
	"PNGProbe/pkg/config"
	"PNGProbe/pkg/console"
	"PNGProbe/pkg/extractor"
	pngextractor "PNGProbe/pkg/extractor/image/png"
	"PNGProbe/pkg/filehandler"
	"PNGProbe/pkg/models"
	"PNGProbe/pkg/png"
	"PNGProbe/pkg/report"
	"PNGProbe/pkg/scanner"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// app bundles everything a run needs
type app struct {
	opts     *options
	cfg      config.Config
	parser   *png.Parser
	registry *analyzer.Registry
	extracts *extractor.Registry
	printer  *console.Printer
	logger   *log.Logger

	// stems maps each input path to a file name stem unique within the run
	stems map[string]string
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newApp loads the configuration and builds the parser and registries
func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	console.SetColor(!opts.noColor && isTerminal(os.Stdout))

	a := &app{
		opts:    opts,
		printer: console.NewPrinter(cmd.OutOrStdout()),
		logger:  console.NewLogger(cmd.ErrOrStderr(), opts.debug),
	}

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		a.logger.Debug("loaded configuration", "path", opts.configPath)
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a.cfg = cfg

	parserOpts, err := cfg.ParserOptions()
	if err != nil {
		return nil, err
	}
	a.parser = png.NewParser(parserOpts)

	// Create registry and register analyzers
	a.registry = analyzer.NewRegistry()
	a.registry.Register(pnganalyzer.NewChunkAnalyzer(a.parser, cfg.MaxFileSize))
	a.extracts = extractor.NewRegistry()
	a.extracts.Register(pngextractor.NewChunkExtractor(a.parser, cfg.MaxFileSize))
	return a, nil
}

func run(cmd *cobra.Command, opts *options) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}

	if opts.file != "" {
		return a.runFile(opts.file)
	}

	paths, err := a.inputPaths()
	if err != nil {
		return err
	}
	return a.runBatch(cmd.Context(), paths)
}

// listFormats prints every registered format with its analyzers and extractors
func (a *app) listFormats() {
	out := a.printer.Writer()

	fmt.Fprintln(out, "Supported file formats:")
	for _, format := range a.registry.GetSupportedFormats() {
		analyzers := a.registry.GetAnalyzersForFormat(format)
		names := make([]string, 0, len(analyzers))
		for _, an := range analyzers {
			names = append(names, an.Name())
		}
		fmt.Fprintf(out, "- %s: %s\n", format, strings.Join(names, ", "))
	}

	fmt.Fprintln(out, "Extractors:")
	for _, format := range a.extracts.GetSupportedFormats() {
		extractors := a.extracts.GetExtractorsForFormat(format)
		names := make([]string, 0, len(extractors))
		for _, e := range extractors {
			names = append(names, e.Name())
		}
		fmt.Fprintf(out, "- %s: %s\n", format, strings.Join(names, ", "))
	}
}

func (a *app) inputPaths() ([]string, error) {
	if a.opts.list != "" {
		a.printer.Info("Processing files listed in: %s", a.opts.list)
		lines, err := filehandler.ReadLines(a.opts.list)
		if err != nil {
			return nil, fmt.Errorf("failed to read list file: %w", err)
		}
		return lines, nil
	}

	a.printer.Info("Analyzing directory: %s", a.opts.dir)
	files, err := filehandler.GatherFiles(a.opts.dir, a.opts.recursive, []string{".png", ".apng"})
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	return files, nil
}

// runFile analyzes a single file. An invalid signature aborts before any
// output is written; a file without chunks is not an error.
func (a *app) runFile(path string) error {
	size, err := filehandler.GetFileSize(path)
	if err != nil {
		return fmt.Errorf("input file %s does not exist", path)
	}
	if size > a.cfg.MaxFileSize {
		return fmt.Errorf("input file %s: %w: %d bytes (max %d)", path, filehandler.ErrFileTooLarge, size, a.cfg.MaxFileSize)
	}
	format, err := filehandler.DetectFileFormat(path)
	if err != nil || format != "png" {
		return fmt.Errorf("input file %s is not a PNG", path)
	}

	a.printer.Info("Starting analysis of %s...", path)
	s := scanner.New(a.registry, a.analysisOptions(), 1)
	s.FormatHint = format
	fr := s.ScanFile(path)
	if fr.Err != nil {
		return fr.Err
	}
	a.logger.Debug("analyzed file", "path", path, "duration", fr.Duration)

	res := fr.Result
	if res.Summary.TotalChunks == 0 {
		a.warnWalk(res)
		a.printer.Warning("No chunks found in PNG.")
		return nil
	}

	a.stems = outputStems([]string{path})
	a.display(res)
	if err := a.writeOutputs([]*models.AnalysisResult{res}); err != nil {
		return err
	}
	if err := a.fixCRCs(res); err != nil {
		return err
	}
	if err := a.extractChunks(res); err != nil {
		return err
	}

	a.printer.Success("Analysis complete. Total chunks: %d", res.Summary.TotalChunks)
	return nil
}

func (a *app) runBatch(ctx context.Context, paths []string) error {
	a.printer.Info("Found %d files to analyze", len(paths))
	if len(paths) == 0 {
		return nil
	}

	var bar *progressbar.ProgressBar
	if !a.opts.verbose && isTerminal(os.Stderr) {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Parsing chunks"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	s := scanner.New(a.registry, a.analysisOptions(), a.cfg.Workers)
	results, err := s.Scan(ctx, paths, func(fr scanner.FileResult) {
		a.logger.Debug("analyzed file", "path", fr.Path, "duration", fr.Duration, "err", fr.Err)
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	for _, fr := range scanner.Failed(results) {
		a.printer.Error("%s: %v", fr.Path, fr.Err)
	}

	var analyzed []*models.AnalysisResult
	for _, res := range scanner.Succeeded(results) {
		if res.Summary.TotalChunks == 0 {
			a.warnWalk(res)
			a.printer.Warning("%s: No chunks found in PNG.", res.Filename)
			continue
		}
		a.display(res)
		analyzed = append(analyzed, res)
	}

	if len(analyzed) > 0 {
		names := make([]string, len(analyzed))
		for i, res := range analyzed {
			names[i] = res.Filename
		}
		a.stems = outputStems(names)

		if err := a.writeOutputs(analyzed); err != nil {
			return err
		}
		for _, res := range analyzed {
			if err := a.fixCRCs(res); err != nil {
				a.printer.Error("%s: %v", res.Filename, err)
			}
			if err := a.extractChunks(res); err != nil {
				a.printer.Error("%s: %v", res.Filename, err)
			}
		}
	}

	a.printSummary(results)

	if failed := scanner.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d files could not be analyzed", len(failed), len(results))
	}
	return nil
}

func (a *app) analysisOptions() analyzer.AnalysisOptions {
	return analyzer.AnalysisOptions{DataLimit: a.cfg.ExportDataLimit}
}

// display prints the per-file findings, and the chunk table in verbose mode
func (a *app) display(res *models.AnalysisResult) {
	out := a.printer.Writer()

	if a.opts.verbose {
		fmt.Fprintf(out, "\n--- %s ---\n", res.Filename)
		report.RenderTable(out, res.Records, a.cfg.VerbosePreviewChars)
	}

	a.warnWalk(res)

	// warnings only in verbose mode
	minLevel := models.LevelAlert
	if a.opts.verbose {
		minLevel = models.LevelWarning
	}
	for _, f := range res.FindingsAt(minLevel) {
		if f.Level == models.LevelAlert {
			a.printer.Alert("%s at offset 0x%x (%s)", f.Description, f.Offset, f.Details)
		} else {
			a.printer.Warning("%s at offset 0x%x (%s)", f.Description, f.Offset, f.Details)
		}
	}
}

// warnWalk reports a chunk walk that stopped on a truncated chunk
func (a *app) warnWalk(res *models.AnalysisResult) {
	if res.Warning == "" {
		return
	}
	a.printer.Warning("%s: %s", res.Filename, res.Warning)
	a.logger.Warn("chunk walk stopped early", "file", res.Filename, "reason", res.Warning)
}

func (a *app) writeOutputs(results []*models.AnalysisResult) error {
	name := "pngprobe_results." + a.opts.format
	path := filepath.Join(a.opts.output, name)

	f, err := filehandler.CreateFile(path)
	if err != nil {
		return fmt.Errorf("error saving results: %w", err)
	}
	switch a.opts.format {
	case "json":
		err = report.WriteJSON(f, results)
	default:
		var records []models.ChunkRecord
		for _, r := range results {
			records = append(records, r.Records...)
		}
		err = report.WriteCSV(f, records)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("error saving results: %w", err)
	}
	a.printer.Info("Results saved to %s", path)

	summaryPath := filepath.Join(a.opts.output, "summary.txt")
	var b strings.Builder
	if err := report.WriteSummary(&b, time.Now(), results); err != nil {
		return fmt.Errorf("error saving summary: %w", err)
	}
	if err := filehandler.SaveFile([]byte(b.String()), summaryPath); err != nil {
		return fmt.Errorf("error saving summary: %w", err)
	}
	a.printer.Info("Summary report saved to %s", summaryPath)
	return nil
}

// fixCRCs writes <name>.fixed.png next to the results when --fix-crc is set
// and the file has mismatching CRCs
func (a *app) fixCRCs(res *models.AnalysisResult) error {
	if !a.opts.fixCRC || res.Summary.InvalidCRCs == 0 {
		return nil
	}

	data, err := filehandler.ReadFileBytes(res.Filename, a.cfg.MaxFileSize)
	if err != nil {
		return err
	}
	parsed, err := a.parser.Parse(data)
	if err != nil {
		return err
	}
	fixed, n := png.RepairCRCs(data, parsed.Chunks)

	out := filepath.Join(a.opts.output, a.stem(res.Filename)+".fixed.png")
	if err := filehandler.SaveFile(fixed, out); err != nil {
		return err
	}
	a.printer.Success("Rewrote %d CRC(s) into %s", n, out)
	return nil
}

// extractChunks saves the selected chunk payloads of res under
// <output>/extracted when --extract is set
func (a *app) extractChunks(res *models.AnalysisResult) error {
	if !a.opts.extract {
		return nil
	}

	extractors := a.extracts.GetExtractorsForFormat(res.FileType)
	if len(extractors) == 0 {
		return fmt.Errorf("no extractors available for format: %s", res.FileType)
	}
	e := extractors[0]

	out, err := e.Extract(res.Filename, extractor.ExtractionOptions{
		OutputDir:  filepath.Join(a.opts.output, "extracted"),
		Prefix:     a.stem(res.Filename),
		ChunkTypes: a.opts.chunkTypes,
	})
	if err != nil {
		return fmt.Errorf("%s failed: %w", e.Name(), err)
	}
	if !out.Success {
		a.printer.Info("%s: no chunks selected for extraction", res.Filename)
		return nil
	}
	for _, c := range out.Chunks {
		a.logger.Debug("extracted chunk", "type", c.Type, "offset", c.Offset, "path", c.Path)
	}
	a.printer.Success("Extracted %d chunk(s), %d bytes, from %s", len(out.Chunks), out.DataSize, res.Filename)
	return nil
}

// outputStems derives a file name stem per path from its base name. Later
// paths whose stem is taken get a _2, _3, ... suffix, so inputs from
// different directories never share output files.
func outputStems(paths []string) map[string]string {
	stems := make(map[string]string, len(paths))
	used := make(map[string]bool, len(paths))
	for _, p := range paths {
		if _, ok := stems[p]; ok {
			continue
		}
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		stem := base
		for n := 2; used[stem]; n++ {
			stem = fmt.Sprintf("%s_%d", base, n)
		}
		used[stem] = true
		stems[p] = stem
	}
	return stems
}

func (a *app) stem(path string) string {
	if s, ok := a.stems[path]; ok {
		return s
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func (a *app) printSummary(results []scanner.FileResult) {
	var clean, suspicious, corrupt, failed int
	for _, fr := range results {
		switch {
		case fr.Err != nil:
			failed++
		case fr.Result.Level >= models.LevelAlert:
			corrupt++
		case fr.Result.Level >= models.LevelWarning:
			suspicious++
		default:
			clean++
		}
	}

	out := a.printer.Writer()
	fmt.Fprintln(out, "\n=== Analysis Summary ===")
	fmt.Fprintf(out, "Total files: %d\n", len(results))
	a.printer.Success("Clean files: %d", clean)
	if suspicious > 0 {
		a.printer.Warning("Files with non-standard or undecodable chunks: %d", suspicious)
	}
	if corrupt > 0 {
		a.printer.Alert("Files with invalid CRCs: %d", corrupt)
	}
	if failed > 0 {
		a.printer.Error("Files that could not be analyzed: %d", failed)
	}
}
