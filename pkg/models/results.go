package models

import (
	"time"
)

// Level grades a finding
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelAlert
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelAlert:
		return "alert"
	default:
		return "info"
	}
}

// MarshalText lets levels appear by name in JSON exports
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// AnalysisResult contains the results of a chunk analysis of one file
type AnalysisResult struct {
	FileType         string        `json:"fileType"`
	Filename         string        `json:"filename"`
	Records          []ChunkRecord `json:"chunks"`
	Summary          Summary       `json:"summary"`
	Findings         []Finding     `json:"findings"`
	Warning          string        `json:"warning,omitempty"` // set when the chunk walk stopped early
	Level            Level         `json:"level"`             // highest level among all findings
	AnalysisTime     time.Time     `json:"analysisTime"`
	AnalysisDuration time.Duration `json:"analysisDuration"`
}

// ChunkRecord is the exportable view of one chunk
type ChunkRecord struct {
	InputFile  string `json:"input_file"`
	ChunkType  string `json:"chunk_type"`
	Offset     int    `json:"offset"`
	Length     uint32 `json:"length"`
	CRCValid   bool   `json:"crc_valid"`
	IsStandard bool   `json:"is_standard"`
	Data       string `json:"data"`
}

// ChunkRef points at a chunk by type and offset
type ChunkRef struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
}

// HeaderFields are the decoded IHDR values
type HeaderFields struct {
	Width             uint32 `json:"width"`
	Height            uint32 `json:"height"`
	BitDepth          uint8  `json:"bit_depth"`
	ColorType         uint8  `json:"color_type"`
	CompressionMethod uint8  `json:"compression"`
	FilterMethod      uint8  `json:"filter_method"`
	InterlaceMethod   uint8  `json:"interlace"`
}

// Summary aggregates a file's chunk sequence
type Summary struct {
	TotalChunks       int           `json:"total_chunks"`
	InvalidCRCs       int           `json:"invalid_crcs"`
	NonStandard       int           `json:"non_standard"`
	Header            *HeaderFields `json:"ihdr,omitempty"`
	InvalidCRCChunks  []ChunkRef    `json:"invalid_crc_chunks,omitempty"`
	NonStandardChunks []ChunkRef    `json:"non_standard_chunks,omitempty"`
}

// Finding represents a specific discovery during analysis
type Finding struct {
	Description string `json:"description"`
	Level       Level  `json:"level"`
	Offset      int    `json:"offset"`
	Details     string `json:"details,omitempty"`
}

// AddFinding adds a finding to the analysis result and raises its level
func (r *AnalysisResult) AddFinding(description string, level Level, offset int, details string) {
	r.Findings = append(r.Findings, Finding{
		Description: description,
		Level:       level,
		Offset:      offset,
		Details:     details,
	})

	if level > r.Level {
		r.Level = level
	}
}

// FindingsAt returns the findings of at least the given level
func (r *AnalysisResult) FindingsAt(level Level) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Level >= level {
			out = append(out, f)
		}
	}
	return out
}

// ExtractedChunk describes one chunk payload written to disk
type ExtractedChunk struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length uint32 `json:"length"`
	Path   string `json:"path"`
}

// ExtractionResult contains the results of an extraction run over one file
type ExtractionResult struct {
	Success     bool             `json:"success"`
	FileType    string           `json:"fileType"`
	Filename    string           `json:"filename"`
	Chunks      []ExtractedChunk `json:"chunks"`
	DataSize    int              `json:"dataSize"`
	OutputFiles []string         `json:"outputFiles"` // Paths to any saved output files
	Warning     string           `json:"warning,omitempty"`
}
