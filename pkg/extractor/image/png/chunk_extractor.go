package png

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"PNGProbe/pkg/extractor"
	"PNGProbe/pkg/filehandler"
	"PNGProbe/pkg/models"
	pngcore "PNGProbe/pkg/png"
)

// ChunkExtractor saves raw chunk payloads of PNG files to disk
type ChunkExtractor struct {
	extractor.BaseExtractor

	parser      *pngcore.Parser
	maxFileSize int64
}

// NewChunkExtractor creates a new chunk extractor. A nil parser uses the
// default parser options.
func NewChunkExtractor(parser *pngcore.Parser, maxFileSize int64) *ChunkExtractor {
	if parser == nil {
		parser = pngcore.NewParser(pngcore.Options{})
	}
	return &ChunkExtractor{
		BaseExtractor: extractor.NewBaseExtractor("PNG Chunk Extractor", []string{"png"}),
		parser:        parser,
		maxFileSize:   maxFileSize,
	}
}

// Extract implements the DataExtractor interface
func (e *ChunkExtractor) Extract(filePath string, options extractor.ExtractionOptions) (*models.ExtractionResult, error) {
	if options.OutputDir == "" {
		return nil, fmt.Errorf("no output directory for extracted chunks")
	}

	data, err := filehandler.ReadFileBytes(filePath, e.maxFileSize)
	if err != nil {
		return nil, err
	}
	parsed, err := e.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	result := &models.ExtractionResult{
		FileType: "png",
		Filename: filePath,
	}
	if parsed.Warning != nil {
		result.Warning = parsed.Warning.Error()
	}

	prefix := options.Prefix
	if prefix == "" {
		prefix = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}
	for i, c := range parsed.Chunks {
		if !selected(c, options.ChunkTypes) {
			continue
		}

		// index keeps names unique when a type repeats
		name := fmt.Sprintf("%s_%03d_%s_0x%x.bin", prefix, i, safeName(c.Type), c.Offset)
		out := filepath.Join(options.OutputDir, name)
		if err := filehandler.SaveFile(c.Payload, out); err != nil {
			return result, fmt.Errorf("failed to save %s chunk: %w", c.Type, err)
		}

		result.Chunks = append(result.Chunks, models.ExtractedChunk{
			Type:   c.Type.String(),
			Offset: c.Offset,
			Length: c.Length,
			Path:   out,
		})
		result.OutputFiles = append(result.OutputFiles, out)
		result.DataSize += len(c.Payload)
	}

	result.Success = len(result.Chunks) > 0
	return result, nil
}

func selected(c pngcore.Chunk, types []string) bool {
	if len(types) == 0 {
		return !c.IsStandard
	}
	return slices.Contains(types, c.Type.String())
}

// safeName maps type bytes that are not ASCII letters to '_' so the type
// can be used in a file name
func safeName(t pngcore.ChunkType) string {
	b := make([]byte, len(t))
	for i, c := range t {
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			b[i] = c
		} else {
			b[i] = '_'
		}
	}
	return string(b)
}
