package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"PNGProbe/pkg/models"

	"github.com/olekukonko/tablewriter"
)

// CSVHeader is the column layout of the tabular export.
var CSVHeader = []string{"input_file", "chunk_type", "offset", "length", "crc_valid", "is_standard", "data"}

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, records []models.ChunkRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.InputFile,
			r.ChunkType,
			strconv.Itoa(r.Offset),
			strconv.FormatUint(uint64(r.Length), 10),
			pyBool(r.CRCValid),
			pyBool(r.IsStandard),
			r.Data,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// pyBool keeps the True/False spelling existing PNGProbe CSV consumers expect.
func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// WriteJSON writes the analysis results as an indented JSON array.
func WriteJSON(w io.Writer, results []*models.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

const rule = "--------------------------------------------------"

// WriteSummary writes the plain-text summary report for one or more files.
func WriteSummary(w io.Writer, generated time.Time, results []*models.AnalysisResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "PNGProbe Summary Report - %s\n", generated.Format(time.RFC3339))
	b.WriteString(rule + "\n")
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		writeFileSummary(&b, r, len(results) > 1)
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFileSummary(b *strings.Builder, r *models.AnalysisResult, named bool) {
	s := r.Summary
	if named {
		fmt.Fprintf(b, "File: %s\n", r.Filename)
	}
	fmt.Fprintf(b, "Total Chunks: %d\n", s.TotalChunks)
	fmt.Fprintf(b, "Invalid CRCs: %d\n", s.InvalidCRCs)
	fmt.Fprintf(b, "Non-Standard Chunks: %d\n", s.NonStandard)

	if h := s.Header; h != nil {
		b.WriteString("\nIHDR Details:\n")
		fmt.Fprintf(b, "  Width: %d\n", h.Width)
		fmt.Fprintf(b, "  Height: %d\n", h.Height)
		fmt.Fprintf(b, "  Bit Depth: %d\n", h.BitDepth)
		fmt.Fprintf(b, "  Color Type: %d\n", h.ColorType)
		fmt.Fprintf(b, "  Compression: %d\n", h.CompressionMethod)
		fmt.Fprintf(b, "  Filter Method: %d\n", h.FilterMethod)
		fmt.Fprintf(b, "  Interlace: %d\n", h.InterlaceMethod)
	}

	writeRefs(b, "Invalid CRC Chunks", s.InvalidCRCChunks)
	writeRefs(b, "Non-Standard Chunks", s.NonStandardChunks)

	if r.Warning != "" {
		fmt.Fprintf(b, "\nWarning: %s\n", r.Warning)
	}
}

func writeRefs(b *strings.Builder, title string, refs []models.ChunkRef) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, ref := range refs {
		fmt.Fprintf(b, "  %s at offset 0x%x\n", ref.Type, ref.Offset)
	}
}

// RenderTable prints the per-chunk verbose view. Data is cut to preview characters.
func RenderTable(w io.Writer, records []models.ChunkRecord, preview int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Chunk", "Offset", "Length", "CRC Valid", "Standard", "Data"})
	table.SetAutoWrapText(false)
	for _, r := range records {
		data := r.Data
		if t := Truncate(data, preview); t != data {
			data = t + "..."
		}
		table.Append([]string{
			r.ChunkType,
			fmt.Sprintf("0x%x", r.Offset),
			strconv.FormatUint(uint64(r.Length), 10),
			strconv.FormatBool(r.CRCValid),
			strconv.FormatBool(r.IsStandard),
			data,
		})
	}
	table.Render()
}
