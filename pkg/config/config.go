package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"PNGProbe/pkg/png"

	"gopkg.in/yaml.v3"
)

// Config contains the settings for parsing and reporting. It is built once at
// startup and only read afterwards.
type Config struct {
	// Parser settings
	RawPreviewBytes int      `yaml:"raw_preview_bytes"` // payload bytes rendered as hex for undecoded chunks
	MaxInflateSize  int64    `yaml:"max_inflate_size"`  // cap on a decompressed zTXt value
	StandardChunks  []string `yaml:"standard_chunks"`   // tags counted as standard

	// Report settings
	ExportDataLimit     int `yaml:"export_data_limit"`     // characters of decoded data per exported row
	VerbosePreviewChars int `yaml:"verbose_preview_chars"` // characters of decoded data in the verbose table

	// Input settings
	MaxFileSize int64 `yaml:"max_file_size"`
	Workers     int   `yaml:"workers"`
}

// Default returns the default configuration
func Default() Config {
	std := png.StandardTypes()
	tags := make([]string, len(std))
	for i, t := range std {
		tags[i] = t.String()
	}

	return Config{
		RawPreviewBytes: png.DefaultRawPreview,
		MaxInflateSize:  png.DefaultMaxInflateSize,
		StandardChunks:  tags,

		ExportDataLimit:     500,
		VerbosePreviewChars: 100,

		MaxFileSize: 100 * 1024 * 1024, // 100MB
		Workers:     4,
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are rejected.
func Load(filename string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	var errs []error
	if c.RawPreviewBytes <= 0 {
		errs = append(errs, errors.New("raw_preview_bytes must be positive"))
	}
	if c.MaxInflateSize <= 0 {
		errs = append(errs, errors.New("max_inflate_size must be positive"))
	}
	if c.ExportDataLimit <= 0 {
		errs = append(errs, errors.New("export_data_limit must be positive"))
	}
	if c.VerbosePreviewChars <= 0 {
		errs = append(errs, errors.New("verbose_preview_chars must be positive"))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, errors.New("max_file_size must be positive"))
	}
	if c.Workers < 1 {
		errs = append(errs, errors.New("workers must be at least 1"))
	}
	if _, err := c.standardTypes(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParserOptions converts the parser settings for png.NewParser
func (c *Config) ParserOptions() (png.Options, error) {
	std, err := c.standardTypes()
	if err != nil {
		return png.Options{}, err
	}
	return png.Options{
		RawPreview:     c.RawPreviewBytes,
		MaxInflateSize: c.MaxInflateSize,
		StandardTypes:  std,
	}, nil
}

func (c *Config) standardTypes() ([]png.ChunkType, error) {
	types := make([]png.ChunkType, 0, len(c.StandardChunks))
	for _, s := range c.StandardChunks {
		t, err := png.ParseChunkType(s)
		if err != nil {
			return nil, fmt.Errorf("standard_chunks: %w", err)
		}
		types = append(types, t)
	}
	return types, nil
}
