package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"PNGProbe/pkg/analyzer"
	pnganalyzer "PNGProbe/pkg/analyzer/image/png"
	"PNGProbe/pkg/png"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registry() *analyzer.Registry {
	r := analyzer.NewRegistry()
	r.Register(pnganalyzer.NewChunkAnalyzer(nil, 0))
	return r
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func validPNG() []byte {
	return png.Encode([]png.Chunk{{Type: png.TypeIEND}})
}

func TestScanKeepsOrderAndIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.png", validPNG()),
		writeFile(t, dir, "bad.png", []byte("not a png at all")),
		writeFile(t, dir, "c.png", validPNG()),
		writeFile(t, dir, "notes.txt", []byte("plain text")),
		writeFile(t, dir, "e.png", validPNG()),
	}

	var seen atomic.Int32
	s := New(registry(), analyzer.AnalysisOptions{}, 3)
	results, err := s.Scan(context.Background(), paths, func(FileResult) { seen.Add(1) })
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	assert.EqualValues(t, len(paths), seen.Load())

	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, png.ErrInvalidFormat)
	assert.ErrorContains(t, results[3].Err, "unsupported file format")
	assert.Equal(t, "PNG Chunk Analyzer", results[4].Analyzer)

	assert.Len(t, Failed(results), 2)
	ok := Succeeded(results)
	require.Len(t, ok, 3)
	assert.Equal(t, 1, ok[0].Summary.TotalChunks)
}

func TestScanFileFormatHint(t *testing.T) {
	path := writeFile(t, t.TempDir(), "image.bin", validPNG())

	s := New(registry(), analyzer.AnalysisOptions{}, 1)
	s.FormatHint = "gif"
	r := s.ScanFile(path)
	assert.ErrorContains(t, r.Err, "no analyzers available for format: gif")

	s.FormatHint = "auto"
	r = s.ScanFile(path)
	require.NoError(t, r.Err)
	assert.Equal(t, "png", r.Format)
}

func TestScanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeFile(t, t.TempDir(), "a.png", validPNG())
	_, err := New(registry(), analyzer.AnalysisOptions{}, 2).Scan(ctx, []string{path}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
