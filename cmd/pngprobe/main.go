package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"PNGProbe/pkg/console"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

// options holds the command line flags
type options struct {
	file       string
	dir        string
	list       string
	recursive  bool
	output     string
	format     string
	configPath string
	workers    int
	verbose    bool
	fixCRC     bool
	extract    bool
	chunkTypes []string
	noColor    bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "pngprobe",
		Short: "Analyze PNG files for metadata and structure",
		Long: `PNGProbe walks the chunk structure of PNG files. It validates the signature,
checks every chunk CRC, decodes IHDR and text chunks, flags non-standard chunks,
and exports the results as CSV or JSON with a plain-text summary.`,
		Example: `  pngprobe -f image.png
  pngprobe -f image.png -v --format json -o out
  pngprobe -d ./samples -r -w 8
  pngprobe -l files.txt --fix-crc
  pngprobe -f image.png -x --extract-type tEXt,zTXt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "Input PNG file to parse")
	f.StringVarP(&opts.dir, "dir", "d", "", "Directory of PNG files to parse")
	f.StringVarP(&opts.list, "list", "l", "", "File containing PNG paths, one per line")
	f.BoolVarP(&opts.recursive, "recursive", "r", false, "Descend into subdirectories with --dir")
	f.StringVarP(&opts.output, "output", "o", "pngprobe_output", "Output directory for results")
	f.StringVar(&opts.format, "format", "csv", "Export format (csv, json)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "Files analyzed concurrently (default from config)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed chunk information")
	f.BoolVar(&opts.fixCRC, "fix-crc", false, "Write a copy of each input with mismatching CRCs rewritten")
	f.BoolVarP(&opts.extract, "extract", "x", false, "Save raw payloads of non-standard chunks under <output>/extracted")
	f.StringSliceVar(&opts.chunkTypes, "extract-type", nil, "Chunk types to extract instead of non-standard ones (implies --extract)")

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging on stderr")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the PNGProbe version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "PNGProbe v%s\n", version)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "formats",
		Short: "List supported file formats with their analyzers and extractors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			a.listFormats()
			return nil
		},
	})

	return cmd
}

func (o *options) validate() error {
	inputs := 0
	for _, s := range []string{o.file, o.dir, o.list} {
		if s != "" {
			inputs++
		}
	}
	if inputs != 1 {
		return errors.New("exactly one of --file, --dir or --list is required")
	}
	if o.format != "csv" && o.format != "json" {
		return fmt.Errorf("invalid format %q (want csv or json)", o.format)
	}
	for _, t := range o.chunkTypes {
		if len(t) != 4 {
			return fmt.Errorf("invalid chunk type %q (want 4 characters)", t)
		}
	}
	if len(o.chunkTypes) > 0 {
		o.extract = true
	}
	if o.workers < 0 {
		return errors.New("--workers must not be negative")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		console.NewPrinter(os.Stdout).Error("%v", err)
		stop()
		os.Exit(1)
	}
}
