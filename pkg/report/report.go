// Package report turns parsed chunk sequences into exportable records,
// summaries, and the CSV, JSON, text and table renderings of both.
package report

import (
	"PNGProbe/pkg/models"
	"PNGProbe/pkg/png"
)

// DefaultDataLimit is the number of characters of decoded data kept per record.
const DefaultDataLimit = 500

// Records builds one exportable record per chunk. Decoded data is truncated
// to dataLimit characters; a non-positive limit selects DefaultDataLimit.
func Records(inputFile string, chunks []png.Chunk, dataLimit int) []models.ChunkRecord {
	if dataLimit <= 0 {
		dataLimit = DefaultDataLimit
	}

	records := make([]models.ChunkRecord, 0, len(chunks))
	for _, c := range chunks {
		records = append(records, models.ChunkRecord{
			InputFile:  inputFile,
			ChunkType:  c.Type.String(),
			Offset:     c.Offset,
			Length:     c.Length,
			CRCValid:   c.CRCValid,
			IsStandard: c.IsStandard,
			Data:       Truncate(decodedString(c.Decoded), dataLimit),
		})
	}
	return records
}

// Summarize aggregates counts, the first IHDR header and the chunks worth
// pointing out.
func Summarize(chunks []png.Chunk) models.Summary {
	s := models.Summary{TotalChunks: len(chunks)}
	seenIHDR := false

	for _, c := range chunks {
		ref := models.ChunkRef{Type: c.Type.String(), Offset: c.Offset}
		if !c.CRCValid {
			s.InvalidCRCs++
			s.InvalidCRCChunks = append(s.InvalidCRCChunks, ref)
		}
		if !c.IsStandard {
			s.NonStandard++
			s.NonStandardChunks = append(s.NonStandardChunks, ref)
		}

		if c.Kind() != png.KindIHDR || seenIHDR {
			continue
		}
		seenIHDR = true
		if h, ok := c.Decoded.(png.HeaderInfo); ok {
			s.Header = &models.HeaderFields{
				Width:             h.Width,
				Height:            h.Height,
				BitDepth:          h.BitDepth,
				ColorType:         h.ColorType,
				CompressionMethod: h.CompressionMethod,
				FilterMethod:      h.FilterMethod,
				InterlaceMethod:   h.InterlaceMethod,
			}
		}
	}
	return s
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func decodedString(d png.Decoded) string {
	if d == nil {
		return ""
	}
	return d.String()
}
