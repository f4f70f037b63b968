package extractor

import (
	"slices"

	"PNGProbe/pkg/models"
)

// ExtractionOptions contains configuration for extraction process
type ExtractionOptions struct {
	OutputDir string
	// Prefix starts every output file name; empty uses the input's base name
	Prefix string
	// ChunkTypes selects the chunks to extract by type; empty selects
	// every non-standard chunk
	ChunkTypes []string
}

// DataExtractor is the interface that all extractors must implement
type DataExtractor interface {
	// CanExtract checks if this extractor can handle the given format
	CanExtract(format string) bool

	// Extract writes the selected payloads of a file below options.OutputDir
	Extract(filePath string, options ExtractionOptions) (*models.ExtractionResult, error)

	// Name returns the name of the extractor
	Name() string

	// SupportedFormats returns formats this extractor supports
	SupportedFormats() []string
}

// BaseExtractor provides common functionality for extractors
type BaseExtractor struct {
	name    string
	formats []string
}

// NewBaseExtractor creates a new BaseExtractor
func NewBaseExtractor(name string, formats []string) BaseExtractor {
	return BaseExtractor{
		name:    name,
		formats: formats,
	}
}

// Name returns the extractor name
func (b *BaseExtractor) Name() string {
	return b.name
}

// SupportedFormats returns the supported formats
func (b *BaseExtractor) SupportedFormats() []string {
	return b.formats
}

// CanExtract checks if the extractor supports the given format
func (b *BaseExtractor) CanExtract(format string) bool {
	return slices.Contains(b.formats, format)
}
