package png

import (
	"fmt"
	"time"

	"PNGProbe/pkg/analyzer"
	"PNGProbe/pkg/filehandler"
	"PNGProbe/pkg/models"
	pngcore "PNGProbe/pkg/png"
	"PNGProbe/pkg/report"
)

/*
Summary of this file and these functions:
- ChunkAnalyzer implements analyzer.BytesAnalyzer for PNG files.
- Analyze reads the whole file (bounded by the size limit) and hands it to AnalyzeBytes.
- AnalyzeBytes walks the chunk structure, builds export records and the summary,
  and turns invalid CRCs, non-standard chunks, decode errors and a truncated walk into findings.
- An invalid signature is the only error returned; everything else is reported in the result.
*/

// ChunkAnalyzer implements structural chunk analysis for PNG files
type ChunkAnalyzer struct {
	analyzer.BaseAnalyzer

	parser      *pngcore.Parser
	maxFileSize int64
}

// NewChunkAnalyzer creates a new PNG chunk analyzer
func NewChunkAnalyzer(parser *pngcore.Parser, maxFileSize int64) *ChunkAnalyzer {
	if parser == nil {
		parser = pngcore.NewParser(pngcore.Options{})
	}
	return &ChunkAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"PNG Chunk Analyzer",
			"Walks PNG chunks, verifies CRCs and decodes header and text chunks",
			[]string{"png"},
		),
		parser:      parser,
		maxFileSize: maxFileSize,
	}
}

// Analyze performs analysis on a PNG file
func (a *ChunkAnalyzer) Analyze(filePath string, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	data, err := filehandler.ReadFileBytes(filePath, a.maxFileSize)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeBytes(filePath, data, options)
}

// AnalyzeBytes analyzes a PNG datastream already in memory
func (a *ChunkAnalyzer) AnalyzeBytes(name string, data []byte, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	start := time.Now()

	parsed, err := a.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	result := &models.AnalysisResult{
		FileType:     "png",
		Filename:     name,
		Records:      report.Records(name, parsed.Chunks, options.DataLimit),
		Summary:      report.Summarize(parsed.Chunks),
		Findings:     []models.Finding{},
		AnalysisTime: start,
	}

	for _, c := range parsed.Chunks {
		if !c.CRCValid {
			result.AddFinding(fmt.Sprintf("Invalid CRC in %s chunk", c.Type), models.LevelAlert, c.Offset,
				fmt.Sprintf("declared=%08X computed=%08X", c.CRCDeclared, c.CRCComputed))
		}
		if !c.IsStandard {
			result.AddFinding(fmt.Sprintf("Non-standard chunk %q", c.Type.String()), models.LevelWarning, c.Offset,
				fmt.Sprintf("%d bytes", c.Length))
		}
		if de, ok := c.Decoded.(pngcore.DecodeError); ok {
			result.AddFinding(fmt.Sprintf("Undecodable %s chunk", c.Type), models.LevelWarning, c.Offset, de.Reason)
		}
	}

	if parsed.Warning != nil {
		result.Warning = parsed.Warning.Error()
		offset := len(data)
		if tce, ok := parsed.Warning.(*pngcore.TruncatedChunkError); ok {
			offset = tce.Offset
		}
		result.AddFinding("Chunk walk stopped on a truncated chunk", models.LevelWarning, offset, result.Warning)
	}

	result.AnalysisDuration = time.Since(start)
	return result, nil
}
