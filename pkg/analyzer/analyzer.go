package analyzer

import (
	"PNGProbe/pkg/models"
)

/*
Analyzer.go contains the interface and base implementation for file analyzers.
FileAnalyzer: interface defines the methods that all file analyzers must implement.
BytesAnalyzer: interface extends FileAnalyzer for analyzers that can work on an in-memory buffer.
BaseAnalyzer: struct provides common functionality for analyzers, such as name, description, and supported formats.
AnalysisOptions: struct holds per-call options, such as the format hint and the export data limit.
*/

// AnalysisOptions holds configuration options for analysis
type AnalysisOptions struct {
	Format    string
	DataLimit int // characters of decoded data kept per exported record
}

// FileAnalyzer is the interface that all file analyzers must implement
type FileAnalyzer interface {
	// CanAnalyze checks if this analyzer can handle the given format
	CanAnalyze(format string) bool

	// Analyze performs analysis on a file and returns results
	Analyze(filePath string, options AnalysisOptions) (*models.AnalysisResult, error)

	// Name returns the name of the analyzer
	Name() string

	// Description returns a detailed description of what the analyzer does
	Description() string

	// SupportedFormats returns a list of file formats this analyzer supports
	SupportedFormats() []string
}

// BytesAnalyzer is an interface for analyzers that work on a file already in memory
type BytesAnalyzer interface {
	FileAnalyzer

	// AnalyzeBytes performs analysis on data read from name
	AnalyzeBytes(name string, data []byte, options AnalysisOptions) (*models.AnalysisResult, error)
}

// BaseAnalyzer provides common functionality for analyzers
type BaseAnalyzer struct {
	name        string
	description string
	formats     []string
}

// NewBaseAnalyzer creates a new BaseAnalyzer
func NewBaseAnalyzer(name, description string, formats []string) BaseAnalyzer {
	return BaseAnalyzer{
		name:        name,
		description: description,
		formats:     formats,
	}
}

// Name returns the analyzer name
func (b *BaseAnalyzer) Name() string {
	return b.name
}

// Description returns the analyzer description
func (b *BaseAnalyzer) Description() string {
	return b.description
}

// SupportedFormats returns the supported formats
func (b *BaseAnalyzer) SupportedFormats() []string {
	return b.formats
}

// CanAnalyze checks if the analyzer supports the given format
func (b *BaseAnalyzer) CanAnalyze(format string) bool {
	for _, f := range b.formats {
		if f == format {
			return true
		}
	}
	return false
}
